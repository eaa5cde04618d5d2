package constants

const (
	// ContextKeyUserID is the key used for the authenticated user ID in both
	// the session and the gin context.
	ContextKeyUserID = "user_id"

	SessionCookieName = "clinical_session"
	SessionMaxAge     = 86400 * 7

	// MaxPasswordBytes is bcrypt's input limit.
	MaxPasswordBytes = 72

	// Defaults for the simulated file upload.
	DefaultUploadName = "uploaded_file.dat"
	DefaultUploadType = "unknown"
	DefaultUploadSize = 1024

	ModelRunQueued = "queued"
	JobIDPrefix    = "job_"
)
