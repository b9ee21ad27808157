package ui

import (
	"errors"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

const GrantNotifications = "notifications"

var errNoDisplayUser = errors.New("unable to detect user of current display session")

// GrantStore remembers the answer to a permission request.
type GrantStore interface {
	LoadGrant(name string) (granted bool, found bool, err error)
	SaveGrant(name string, granted bool) error
}

// Prompt asks the user for a permission and returns the answer.
type Prompt func(question string) bool

// DeliverFunc hands a notification to the desktop.
type DeliverFunc func(title, text string)

// Notifier sends desktop notifications once the user granted permission to do so.
// The permission is requested at most once and the answer is persisted.
type Notifier struct {
	grants  GrantStore
	prompt  Prompt
	deliver DeliverFunc

	mu      sync.Mutex
	decided bool
	granted bool
}

func NewNotifier(grants GrantStore, prompt Prompt) *Notifier {
	return &Notifier{
		grants:  grants,
		prompt:  prompt,
		deliver: NotifyInfo,
	}
}

// WithDelivery replaces the desktop delivery function.
func (n *Notifier) WithDelivery(deliver DeliverFunc) *Notifier {
	n.deliver = deliver
	return n
}

// Notify delivers the notification if permission is granted, asking for it on first use.
func (n *Notifier) Notify(title, text string) bool {
	if !n.permitted() {
		Debug("Notification suppressed (permission not granted): %s", title)
		return false
	}
	n.deliver(title, text)
	return true
}

func (n *Notifier) permitted() bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.decided {
		return n.granted
	}

	granted, found, err := n.grants.LoadGrant(GrantNotifications)
	if err != nil {
		Warning("Unable to read notification permission: %v", err)
	}
	if !found {
		granted = n.prompt("Allow g2go to show desktop notifications?")
		if err := n.grants.SaveGrant(GrantNotifications, granted); err != nil {
			Warning("Unable to persist notification permission: %v", err)
		}
	}

	n.decided = true
	n.granted = granted
	return granted
}

// InteractivePrompt asks on the terminal when one is attached and answers with fallback otherwise.
func InteractivePrompt(fallback bool) Prompt {
	return func(question string) bool {
		if !isatty.IsTerminal(os.Stdin.Fd()) {
			return fallback
		}
		result, err := pterm.DefaultInteractiveConfirm.
			WithDefaultValue(fallback).
			Show(question)
		if err != nil {
			return fallback
		}
		return result
	}
}

// StaticPrompt always answers with the given value.
func StaticPrompt(answer bool) Prompt {
	return func(string) bool {
		return answer
	}
}
