package pngraw

import "fmt"

// Error types for PNG container parsing
var (
	// ErrInvalidSignature is returned when the buffer does not start with the PNG signature
	ErrInvalidSignature = &PngError{Code: "INVALID_SIGNATURE", Message: "not a PNG: invalid signature"}

	// ErrTruncated is returned when a chunk field extends past the end of the buffer
	ErrTruncated = &PngError{Code: "TRUNCATED", Message: "unexpected end of buffer inside chunk"}

	// ErrInvalidLength is returned when a chunk declares more payload bytes than remain
	ErrInvalidLength = &PngError{Code: "INVALID_LENGTH", Message: "chunk length exceeds remaining buffer"}

	// ErrChecksumMismatch is returned when a chunk's stored CRC does not match the recomputed one
	ErrChecksumMismatch = &PngError{Code: "CHECKSUM_MISMATCH", Message: "chunk checksum mismatch"}

	// ErrUnexpectedEOC is returned when the buffer is exhausted before an IEND chunk is seen
	ErrUnexpectedEOC = &PngError{Code: "UNEXPECTED_END_OF_CONTAINER", Message: "buffer exhausted before IEND chunk"}

	// ErrMissingHeaderChunk is returned when the first chunk is not IHDR
	ErrMissingHeaderChunk = &PngError{Code: "MISSING_HEADER_CHUNK", Message: "first chunk is not IHDR"}

	// ErrHeaderTooShort is returned when the IHDR payload is shorter than 13 bytes
	ErrHeaderTooShort = &PngError{Code: "HEADER_TOO_SHORT", Message: "IHDR payload shorter than 13 bytes"}

	// ErrInvalidDimension is returned when width or height is zero
	ErrInvalidDimension = &PngError{Code: "INVALID_DIMENSION", Message: "image dimension must be greater than zero"}

	// ErrInvalidBitDepth is returned when the bit depth is not 1, 2, 4, 8 or 16
	ErrInvalidBitDepth = &PngError{Code: "INVALID_BIT_DEPTH", Message: "invalid bit depth"}

	// ErrInvalidColorType is returned when the color type is not 0, 2, 3, 4 or 6
	ErrInvalidColorType = &PngError{Code: "INVALID_COLOR_TYPE", Message: "invalid color type"}

	// ErrIncompatibleBitDepth is returned when the (bit depth, color type) pair is illegal
	ErrIncompatibleBitDepth = &PngError{Code: "INCOMPATIBLE_BIT_DEPTH_AND_COLOR_TYPE", Message: "bit depth not allowed for color type"}

	// ErrUnsupportedCompression is returned when the compression method is not zero
	ErrUnsupportedCompression = &PngError{Code: "UNSUPPORTED_COMPRESSION_METHOD", Message: "compression method must be zero"}

	// ErrUnsupportedFilter is returned when the filter method is not zero
	ErrUnsupportedFilter = &PngError{Code: "UNSUPPORTED_FILTER_METHOD", Message: "filter method must be zero"}

	// ErrInvalidInterlace is returned when the interlace method is not zero or one
	ErrInvalidInterlace = &PngError{Code: "INVALID_INTERLACE_METHOD", Message: "invalid interlace method"}

	// ErrNoImageData is returned when the container holds no IDAT chunks
	ErrNoImageData = &PngError{Code: "NO_IMAGE_DATA", Message: "no IDAT chunks in container"}

	// ErrDecompressionFailed is returned when the zlib stream cannot be inflated
	ErrDecompressionFailed = &PngError{Code: "DECOMPRESSION_FAILED", Message: "failed to inflate image data"}
)

// PngError represents a structured error in PNG container parsing
type PngError struct {
	Code    string                 // Error code for programmatic handling
	Message string                 // Human-readable error message
	Cause   error                  // Underlying error, if any
	Details map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *PngError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	if len(e.Details) > 0 {
		return fmt.Sprintf("[%s] %s (details: %v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *PngError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the same kind of PngError, so that
// errors.Is matches the sentinels above regardless of attached details.
func (e *PngError) Is(target error) bool {
	t, ok := target.(*PngError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause adds a cause to the error
func (e *PngError) WithCause(cause error) *PngError {
	return &PngError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   cause,
		Details: e.Details,
	}
}

// WithDetail adds a detail key-value pair to the error
func (e *PngError) WithDetail(key string, value interface{}) *PngError {
	details := make(map[string]interface{})
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &PngError{
		Code:    e.Code,
		Message: e.Message,
		Cause:   e.Cause,
		Details: details,
	}
}

// WithMessage overrides the error message
func (e *PngError) WithMessage(message string) *PngError {
	return &PngError{
		Code:    e.Code,
		Message: message,
		Cause:   e.Cause,
		Details: e.Details,
	}
}

// IsPngError checks if an error is a PngError
func IsPngError(err error) bool {
	_, ok := err.(*PngError)
	return ok
}

// GetErrorCode extracts the error code from a PngError
func GetErrorCode(err error) string {
	if pngErr, ok := err.(*PngError); ok {
		return pngErr.Code
	}
	return ""
}
