package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/bugsnag/bugsnag-go/v2"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/bomis-pampore/website-backend/internal/domain"
)

// Same default body limit as express.json.
const maxContactBodyBytes = 100 << 10

const (
	msgFieldsRequired = "All fields are required"
	msgInvalidJSON    = "Invalid JSON body"
	msgEmailsSent     = "Emails sent successfully"
	msgSendFailed     = "Error sending email"
)

func (a *api) contactHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxContactBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			msg := fmt.Sprintf("Request body exceeds %s", humanize.IBytes(uint64(mbe.Limit)))
			a.errorResponse(w, r, http.StatusRequestEntityTooLarge, msg)
			return
		}
		a.errorResponse(w, r, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	// Bodies that are not JSON are ignored and leave every field empty.
	cs := domain.ContactSubmission{}
	if isJSON(r) && len(bytes.TrimSpace(body)) > 0 {
		parser := a.pool.Get()
		val, err := parser.ParseBytes(body)
		if err != nil {
			a.pool.Put(parser)
			a.errorResponse(w, r, http.StatusBadRequest, msgInvalidJSON)
			return
		}
		cs = domain.NewContactSubmission(val)
		a.pool.Put(parser)
	}

	// A client hanging up must not abort a half finished pair of emails.
	ctx := context.WithoutCancel(r.Context())

	if err := a.contact.Submit(ctx, cs); err != nil {
		if errors.Is(err, domain.ErrValidation) {
			a.errorResponse(w, r, http.StatusBadRequest, msgFieldsRequired)
			return
		}

		a.logger.Error("error sending email",
			zap.Error(err),
			zap.String("request#id", requestID(r.Context())),
		)
		if a.reportErrors {
			_ = bugsnag.Notify(err, r.Context())
		}
		a.errorResponse(w, r, http.StatusInternalServerError, msgSendFailed)
		return
	}

	a.jsonMessage(w, http.StatusOK, msgEmailsSent)
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
