package publish

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// StaticAuth is an AuthContext with a fixed user; the zero value is signed out.
type StaticAuth struct {
	ID string
}

func (a StaticAuth) UserID() (string, bool) {
	id := strings.TrimSpace(a.ID)
	return id, id != ""
}

// WriterSink prints notifications, info to Out and errors to Err.
type WriterSink struct {
	Out io.Writer
	Err io.Writer
}

func (w WriterSink) Info(msg string) {
	fmt.Fprintln(w.Out, msg)
}

func (w WriterSink) Error(msg string) {
	out := w.Err
	if out == nil {
		out = w.Out
	}
	fmt.Fprintln(out, "erro: "+msg)
}

type discardSink struct{}

func (discardSink) Info(string)  {}
func (discardSink) Error(string) {}

// Suggesters fans a suggestion out to every suggester, joining their errors.
type Suggesters []CategorySuggester

func (ss Suggesters) SuggestCategory(ctx context.Context, name, suggestedBy string) error {
	var errs []error
	for _, s := range ss {
		if s == nil {
			continue
		}
		if err := s.SuggestCategory(ctx, name, suggestedBy); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
