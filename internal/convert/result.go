package convert

import (
	"errors"
	"fmt"
)

// Kind classifies a failed conversion.
type Kind string

const (
	KindInputNotFound       Kind = "input_not_found"
	KindUnsupportedFormat   Kind = "unsupported_format"
	KindEncoderNotInstalled Kind = "encoder_not_installed"
	KindEncoderFailed       Kind = "encoder_failed"
	KindOutputMissing       Kind = "output_missing"
	KindOutputEmpty         Kind = "output_empty"
	KindTimeout             Kind = "timeout"
	KindCanceled            Kind = "canceled"
	KindUnexpected          Kind = "unexpected_error"
)

var (
	ErrInputNotFound       = errors.New("input not found")
	ErrUnsupportedFormat   = errors.New("unsupported format")
	ErrEncoderNotInstalled = errors.New("encoder not installed")
	ErrEncoderFailed       = errors.New("encoder failed")
	ErrOutputMissing       = errors.New("output missing")
	ErrOutputEmpty         = errors.New("output empty")
	ErrTimeout             = errors.New("conversion timed out")
	ErrCanceled            = errors.New("conversion canceled")
	ErrUnexpected          = errors.New("unexpected error")
)

var kindSentinels = map[Kind]error{
	KindInputNotFound:       ErrInputNotFound,
	KindUnsupportedFormat:   ErrUnsupportedFormat,
	KindEncoderNotInstalled: ErrEncoderNotInstalled,
	KindEncoderFailed:       ErrEncoderFailed,
	KindOutputMissing:       ErrOutputMissing,
	KindOutputEmpty:         ErrOutputEmpty,
	KindTimeout:             ErrTimeout,
	KindCanceled:            ErrCanceled,
	KindUnexpected:          ErrUnexpected,
}

// Sentinel returns the error value errors.Is matches for this kind.
func (k Kind) Sentinel() error {
	if err, ok := kindSentinels[k]; ok {
		return err
	}
	return ErrUnexpected
}

// Failure carries the diagnostics of an unsuccessful conversion.
type Failure struct {
	Kind     Kind
	Message  string
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (f *Failure) Error() string { return f.Message }

// Is matches the sentinel for the failure kind.
func (f *Failure) Is(target error) bool {
	return target == f.Kind.Sentinel()
}

func (f *Failure) Unwrap() error { return f.Err }

func newFailure(kind Kind, format string, args ...any) *Failure {
	return &Failure{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// SuccessMessage is the confirmation returned for every successful conversion.
const SuccessMessage = "Video converted successfully."

// Result is the outcome of a conversion. Exactly one of OutputPath or Failure is set.
type Result struct {
	OutputPath string
	Message    string
	Failure    *Failure
}

func succeeded(path string) Result {
	return Result{OutputPath: path, Message: SuccessMessage}
}

func failed(f *Failure) Result {
	return Result{Failure: f}
}

// OK reports whether the conversion succeeded.
func (r Result) OK() bool { return r.Failure == nil }

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Response is the wire form of a Result.
type Response struct {
	Success        bool   `json:"success"`
	OutputFilePath string `json:"output_file_path,omitempty"`
	Message        string `json:"message,omitempty"`
	Error          string `json:"error,omitempty"`
	Command        string `json:"command,omitempty"`
	ErrorKind      Kind   `json:"error_kind,omitempty"`
}

// Response converts the result to its wire form.
func (r Result) Response() Response {
	if r.Failure == nil {
		return Response{Success: true, OutputFilePath: r.OutputPath, Message: r.Message}
	}
	return Response{
		Success:   false,
		Error:     r.Failure.Message,
		Command:   r.Failure.Command,
		ErrorKind: r.Failure.Kind,
	}
}
