package view

import "github.com/kozaktomas/facedesk/internal/facerec"

// AlertKind selects the banner style.
type AlertKind string

// AlertKind constants.
const (
	AlertSuccess AlertKind = "success"
	AlertDanger  AlertKind = "danger"
)

// Alert is a dismissible banner message.
type Alert struct {
	Kind    AlertKind
	Message string
}

// Success creates a success alert.
func Success(message string) Alert {
	return Alert{Kind: AlertSuccess, Message: message}
}

// Danger creates an error alert.
func Danger(message string) Alert {
	return Alert{Kind: AlertDanger, Message: message}
}

// Failure creates an error alert of the form "<action>: <reason>".
func Failure(action string, err error) Alert {
	return Danger(action + ": " + ErrorText(err))
}

// Class returns the CSS class of the banner.
func (a Alert) Class() string {
	return "alert-" + string(a.Kind)
}

// ErrorText is the user facing text of an error: the raw server message where
// available, "Invalid response from server" for undecodable responses.
func ErrorText(err error) string {
	return facerec.ErrorMessage(err)
}
