// Package publish runs the publish action for a recipe draft.
//
// Guard order is fixed: the draft must pass the gate first, then the user
// must be signed in, then the draft's submission lock must be free. Only then
// is the store called. An invalid draft never produces a sign-in prompt.
package publish

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/computaria2025/FitCooker-v2-sub000/internal/draft"
	"github.com/computaria2025/FitCooker-v2-sub000/internal/gate"
)

// AuthContext reports the signed-in user, if any.
type AuthContext interface {
	UserID() (string, bool)
}

// NotificationSink shows short messages to the user (toasts in the web UI,
// terminal lines in the CLI).
type NotificationSink interface {
	Info(msg string)
	Error(msg string)
}

// RecipeStore persists a finished draft and returns the new recipe id.
type RecipeStore interface {
	SubmitRecipe(ctx context.Context, authorID string, s draft.Snapshot) (string, error)
}

// CategorySuggester forwards a suggested category to the maintainers.
type CategorySuggester interface {
	SuggestCategory(ctx context.Context, name, suggestedBy string) error
}

type Outcome int

const (
	Blocked Outcome = iota + 1
	AuthRequired
	Busy
	Submitted
	SubmitFailed
)

func (o Outcome) String() string {
	switch o {
	case Blocked:
		return "blocked"
	case AuthRequired:
		return "auth_required"
	case Busy:
		return "busy"
	case Submitted:
		return "submitted"
	case SubmitFailed:
		return "submit_failed"
	default:
		return "unknown"
	}
}

const (
	MessageBlocked       = "Preencha todos os campos obrigatórios antes de publicar."
	MessageAuthRequired  = "Faça login para publicar sua receita."
	MessageBusy          = "Sua receita já está sendo publicada."
	MessageSubmitted     = "Receita publicada com sucesso!"
	MessageSubmitFailed  = "Não foi possível publicar a receita. Tente novamente."
	MessageSuggestionOK  = "Obrigado! Sua sugestão de categoria foi enviada."
	MessageSuggestionBad = "Não foi possível enviar a sugestão de categoria."
)

type Result struct {
	Outcome  Outcome
	RecipeID string
	Missing  []string
	Err      error
}

// Session drives publishing for one draft. Draft and Store are required; a
// nil Auth is signed out and a nil Notify drops messages.
type Session struct {
	Draft     *draft.Draft
	Auth      AuthContext
	Notify    NotificationSink
	Store     RecipeStore
	Suggester CategorySuggester
	Logger    *slog.Logger
}

func (s *Session) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *Session) notify() NotificationSink {
	if s.Notify != nil {
		return s.Notify
	}
	return discardSink{}
}

// userID treats a missing AuthContext as signed out.
func (s *Session) userID() (string, bool) {
	if s.Auth == nil {
		return "", false
	}
	return s.Auth.UserID()
}

// Submit attempts to publish the draft once.
func (s *Session) Submit(ctx context.Context) Result {
	log := s.logger()
	sink := s.notify()

	check := gate.EvaluateDraft(s.Draft)
	if !check.IsValid {
		missing := check.Missing()
		log.Info("publish blocked", "missing", strings.Join(missing, ", "))
		sink.Error(MessageBlocked)
		return Result{Outcome: Blocked, Missing: missing}
	}

	userID, ok := s.userID()
	if !ok {
		log.Info("publish requires sign in")
		sink.Info(MessageAuthRequired)
		return Result{Outcome: AuthRequired}
	}

	if !s.Draft.BeginSubmit() {
		sink.Info(MessageBusy)
		return Result{Outcome: Busy}
	}
	defer s.Draft.EndSubmit()

	// Edits may have landed between the first check and the lock.
	snapshot := s.Draft.Snapshot()
	if check = gate.Evaluate(snapshot); !check.IsValid {
		sink.Error(MessageBlocked)
		return Result{Outcome: Blocked, Missing: check.Missing()}
	}

	id, err := s.Store.SubmitRecipe(ctx, userID, snapshot)
	if err != nil {
		err = fmt.Errorf("submit recipe: %w", err)
		log.Error("publish failed", "user", userID, "err", err)
		sink.Error(MessageSubmitFailed)
		return Result{Outcome: SubmitFailed, Err: err}
	}

	s.Draft.Reset()
	log.Info("recipe published", "user", userID, "recipe", id)
	sink.Info(MessageSubmitted)
	return Result{Outcome: Submitted, RecipeID: id}
}

// SuggestCategory forwards a category suggestion. It never selects the
// category on the draft and never fails the caller.
func (s *Session) SuggestCategory(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	if name == "" || s.Suggester == nil {
		return
	}
	by, _ := s.userID()
	if err := s.Suggester.SuggestCategory(ctx, name, by); err != nil {
		s.logger().Warn("category suggestion failed", "category", name, "err", err)
		s.notify().Error(MessageSuggestionBad)
		return
	}
	s.notify().Info(MessageSuggestionOK)
}
