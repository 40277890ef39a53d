package config

import "time"

// Default values for configuration
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	DefaultDBPath             = "user_data.db"
	DefaultDBOperationTimeout = 15 * time.Second

	// Telegram rejects bot downloads above 50MB, so larger videos are refused.
	DefaultMaxVideoSize int64 = 50_000_000

	DefaultServerEnabled         = false
	DefaultServerAddr            = ":8080"
	DefaultServerReadTimeout     = 5 * time.Second
	DefaultServerWriteTimeout    = 10 * time.Second
	DefaultServerShutdownTimeout = 10 * time.Second
)

// DefaultMessages are the replies sent when config.yaml does not override them.
var DefaultMessages = MessagesConfig{
	Welcome: "Welcome to the bot! Please send the following information:\n" +
		"- first_name: <your first name>\n" +
		"- last_name: <your last name>\n" +
		"- phone_number: <your phone number>\n" +
		"\n" +
		"- Your video: <send a video>",
	Unrecognized:     "I didn't understand, please try again!",
	NoSession:        "Oops! Something went wrong, please use the /start command",
	VideoTooLarge:    "The video file size is too large, please send a file less than 50MB",
	GeneralError:     "An error occurred. Please try again later.",
	FieldSavedFmt:    "Your %s has been successfully registered",
	FieldInvalidFmt:  "The %s format is not valid, please send it again",
	StatusHeader:     "Here is what you have registered so far:",
	StatusMissing:    "not sent yet",
	StatusVideoSaved: "received",
}

// DefaultCommands is the command menu registered with Telegram at startup.
var DefaultCommands = []CommandConfig{
	{Command: "start", Description: "Start registration"},
	{Command: "help", Description: "Show what to send"},
	{Command: "status", Description: "Show what you have registered"},
}

// DefaultTasks schedules database maintenance and the identity gauge refresh.
var DefaultTasks = map[string]TaskConfig{
	"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
	"identity_count":  {Enabled: true, Schedule: "0 */5 * * * *"},
}
