package config

// User facing messages. The wording follows what the dashboard has always
// shown in its alert dialogs.
const (
	// Database errors
	ErrInitializeDatabaseFmt = "Failed to initialize database: %v"

	// Auth errors
	MsgLoginSuccessful   = "Login successful!"
	ErrLoginFailed       = "Login failed"
	ErrSomethingWrong    = "Something went wrong!"
	ErrGenericRequest    = "An error occurred"
	ErrFailedToSend      = "Failed to send request"
	ErrEmailRequired     = "Email is required"
	ErrUsernameRequired  = "Username is required"
	ErrInternalServerErr = "Internal server error"

	// Editor errors
	ErrRecordNotFound   = "Record not found"
	ErrImageRejected    = "Image could not be used"
	ErrDraftReplaced    = "The form was replaced in another tab. Your changes were not saved."
	ErrValidationFailed = "Please fill in the required fields"
	ErrInvalidNumber    = "Enter a valid number"
	ErrNegativeNumber   = "Must not be negative"
)
