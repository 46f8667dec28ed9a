package editor

import (
	"errors"

	"github.com/md-rashed-zaman/backoffice/services/backoffice-service/internal/backendapi"
)

type DialogKind string

const (
	DialogExceptions DialogKind = "exceptions"
	DialogWarnings   DialogKind = "warnings"
)

const (
	exceptionsTitle   = "Unexpected Issues"
	exceptionsMessage = "Unfortunately the operation could not complete successfully. The following issues occurred."
	warningsTitle     = "Unexpected Warnings"
	warningsMessage   = "The operation completed with the following warnings."

	deleteConfirmMessage = "Are you sure that you want to delete this record? This action cannot be undone."
)

// Dialog is the modal message box.
type Dialog struct {
	Kind    DialogKind         `json:"kind"`
	Title   string             `json:"title"`
	Message string             `json:"message"`
	Issues  []backendapi.Issue `json:"issues,omitempty"`
}

func failureDialog(err error) *Dialog {
	d := &Dialog{Kind: DialogExceptions, Title: exceptionsTitle, Message: exceptionsMessage}
	var exc *backendapi.ExceptionsError
	if errors.As(err, &exc) {
		d.Issues = exc.Issues
	} else {
		d.Issues = []backendapi.Issue{{Message: err.Error()}}
	}
	return d
}

func warningsDialog(issues []backendapi.Issue) *Dialog {
	if len(issues) == 0 {
		return nil
	}
	return &Dialog{Kind: DialogWarnings, Title: warningsTitle, Message: warningsMessage, Issues: issues}
}
