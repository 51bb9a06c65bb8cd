package types

// ContextUserKey is where the auth middleware stores the current user.
const ContextUserKey = "user"
