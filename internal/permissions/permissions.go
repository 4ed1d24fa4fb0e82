package permissions

import "errors"

// ErrScreenCaptureDenied is returned when the host refuses screen capture.
var ErrScreenCaptureDenied = errors.New("screen recording permission not granted; grant it in System Settings and restart")

// CheckScreenCapture requests Screen Recording permission when missing and
// returns ErrScreenCaptureDenied if it is still not granted.
func CheckScreenCapture() error {
	return check(HasScreenRecording, RequestScreenRecording)
}

func check(has, request func() bool) error {
	if has() {
		return nil
	}
	if request() {
		return nil
	}
	return ErrScreenCaptureDenied
}
