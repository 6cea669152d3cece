package ports

// Stable caller-facing error codes. The set is part of the outward contract
// and must not change between releases.
const (
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeUsernameExist      = "USERNAME_EXIST"
	CodeInvalidFormat      = "INVALID_FORMAT"
	CodeInvalidOldPassword = "INVALID_OLD_PASSWORD"
)

// BusinessError is a recoverable, caller-facing failure carrying one of the
// stable codes above plus a human-readable cause. Anything the service cannot
// map to a code (store connectivity, hashing failures) propagates unwrapped.
type BusinessError struct {
	Code    string
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

func NewBusinessError(code, message string) *BusinessError {
	return &BusinessError{Code: code, Message: message}
}
