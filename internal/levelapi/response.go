package levelapi

// Response is the outcome of a dispatched API call: either a parsed JSON
// value or a failure message. Distinguishing the two structurally keeps
// error handling out of the tool operations' hot path.
type Response struct {
	value any
	err   string
}

// Success wraps a parsed JSON body (map or list).
func Success(value any) Response {
	return Response{value: value}
}

// Failure wraps a failure message.
func Failure(msg string) Response {
	return Response{err: msg}
}

// Failed reports whether the call failed.
func (r Response) Failed() bool {
	return r.err != ""
}

// Err returns the failure message, empty on success.
func (r Response) Err() string {
	return r.err
}

// Value returns the parsed JSON body, nil on failure.
func (r Response) Value() any {
	return r.value
}

// Map returns the body as an object, with ok=false when the body is a list
// or the call failed.
func (r Response) Map() (map[string]any, bool) {
	m, ok := r.value.(map[string]any)
	return m, ok
}

// List returns the body as a list, with ok=false when the body is an object
// or the call failed.
func (r Response) List() ([]any, bool) {
	l, ok := r.value.([]any)
	return l, ok
}

// Body returns the value handed back to the host runtime: the parsed JSON
// body on success, or an error-shaped object on failure.
func (r Response) Body() any {
	if r.Failed() {
		return map[string]any{"error": r.err}
	}
	return r.value
}
