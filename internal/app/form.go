package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"copaweb/internal/domain"
)

// PoolCreator creates a pool and returns its share code
type PoolCreator interface {
	CreatePool(ctx context.Context, title string) (string, error)
}

// Clipboard writes text to the user's clipboard
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// Notifier shows a transient message to the user
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// StatePublisher receives every form state change. PublishState is called
// with the controller lock held and must not block or call back into the
// controller.
type StatePublisher interface {
	PublishState(state domain.FormState)
}

// FailurePolicy decides what a rejected pool creation does next
type FailurePolicy string

const (
	// FailureStrict skips the clipboard write and the notification and
	// records an inline error, keeping the typed title.
	FailureStrict FailurePolicy = "strict"
	// FailureLegacy resets, writes an empty code to the clipboard and
	// notifies as if the pool had been created.
	FailureLegacy FailurePolicy = "legacy"
)

// ResetOrder decides when the field is cleared relative to the clipboard write
type ResetOrder string

const (
	ResetAfterClipboard  ResetOrder = "after-clipboard"
	ResetBeforeClipboard ResetOrder = "before-clipboard"
)

// FormOptions configures a FormController
type FormOptions struct {
	FailurePolicy FailurePolicy
	ResetOrder    ResetOrder
	// ConfirmMessage is the notification shown after a submission.
	ConfirmMessage string
	// FailureMessage is the inline error recorded under FailureStrict.
	FailureMessage string
}

// FormController drives the pool title form of one page
type FormController struct {
	mu        sync.Mutex
	state     domain.FormState
	creator   PoolCreator
	clipboard Clipboard
	notifier  Notifier
	publisher StatePublisher
	opts      FormOptions
	logger    *slog.Logger
}

// NewFormController creates a controller in the initial form state
func NewFormController(creator PoolCreator, clipboard Clipboard, notifier Notifier, publisher StatePublisher, opts FormOptions, logger *slog.Logger) *FormController {
	if opts.FailurePolicy == "" {
		opts.FailurePolicy = FailureStrict
	}
	if opts.ResetOrder == "" {
		opts.ResetOrder = ResetAfterClipboard
	}
	return &FormController{
		state:     domain.NewFormState(),
		creator:   creator,
		clipboard: clipboard,
		notifier:  notifier,
		publisher: publisher,
		opts:      opts,
		logger:    logger,
	}
}

// State returns the current form state
func (f *FormController) State() domain.FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Change handles an edit of the title field
func (f *FormController) Change(value string) domain.FormState {
	return f.update(func(s domain.FormState) domain.FormState {
		return s.Change(value)
	})
}

// Blur handles the title field losing focus
func (f *FormController) Blur() domain.FormState {
	return f.update(domain.FormState.Blur)
}

// Submit creates a pool from the current title, then copies the code and
// notifies the user. It only returns an error when the form could not be
// submitted at all; a failed pool creation is logged and handled according
// to the failure policy.
func (f *FormController) Submit(ctx context.Context) error {
	f.mu.Lock()
	next, ok := f.state.BeginSubmit()
	if !ok {
		inFlight := f.state.Submitting
		f.mu.Unlock()
		if inFlight {
			return domain.ErrSubmitInFlight
		}
		return domain.ErrSubmitNotAllowed
	}
	title := next.Value
	f.state = next
	f.publish()
	f.mu.Unlock()

	code, err := f.creator.CreatePool(ctx, title)
	if err != nil {
		f.logger.Error("pool creation failed", "error", err)
		if f.opts.FailurePolicy == FailureStrict {
			f.update(func(s domain.FormState) domain.FormState {
				return s.EndSubmit().Fail(f.opts.FailureMessage)
			})
			return nil
		}
		code = ""
	} else {
		f.logger.Info("pool created", "code", code)
	}

	f.complete(ctx, code)
	return nil
}

// complete runs the post-submission feedback: reset, clipboard, notification.
func (f *FormController) complete(ctx context.Context, code string) {
	if f.opts.ResetOrder == ResetBeforeClipboard {
		f.update(domain.FormState.Reset)
	}

	if err := f.clipboard.WriteText(ctx, code); err != nil {
		if errors.Is(err, context.Canceled) {
			f.logger.Debug("clipboard write canceled", "error", err)
		} else {
			f.logger.Warn("clipboard write failed", "error", err)
		}
	}

	if f.opts.ResetOrder == ResetAfterClipboard {
		f.update(domain.FormState.Reset)
	}

	if err := f.notifier.Notify(ctx, f.opts.ConfirmMessage); err != nil {
		f.logger.Warn("notification failed", "error", err)
	}

	f.update(domain.FormState.EndSubmit)
}

func (f *FormController) update(fn func(domain.FormState) domain.FormState) domain.FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = fn(f.state)
	f.publish()
	return f.state
}

// publish must be called with f.mu held
func (f *FormController) publish() {
	if f.publisher != nil {
		f.publisher.PublishState(f.state)
	}
}
