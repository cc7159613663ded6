package push

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mediscan/mediscan/internal/model"
	"github.com/mediscan/mediscan/internal/store"
)

// Notifier fans a notification out to every subscription a user holds,
// pruning subscriptions the push service reports as gone.
type Notifier struct {
	service *Service
	subs    *store.PushStore
	logger  *slog.Logger
}

func NewNotifier(svc *Service, subs *store.PushStore, logger *slog.Logger) *Notifier {
	return &Notifier{service: svc, subs: subs, logger: logger}
}

// ReportCompleted notifies the report owner that analysis has finished.
// Failures are logged, never surfaced to the caller; the report pipeline
// does not depend on push delivery.
func (n *Notifier) ReportCompleted(report *model.Report) {
	if !n.service.Configured() {
		return
	}

	payload := Payload{
		Title: "Analysis Complete",
		Body:  fmt.Sprintf("Your %s report is ready to view", report.ImageType),
		URL:   fmt.Sprintf("/reports/%d", report.ID),
		Tag:   fmt.Sprintf("report-%d", report.ID),
	}
	n.notifyUser(report.UserID, payload)
}

func (n *Notifier) notifyUser(userID int64, payload Payload) {
	subs, err := n.subs.ListByUser(userID)
	if err != nil {
		n.logger.Error("push: list subscriptions", "user_id", userID, "error", err)
		return
	}

	for _, sub := range subs {
		if err := n.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				if err := n.subs.DeleteByEndpoint(sub.Endpoint); err != nil {
					n.logger.Error("push: prune expired subscription", "error", err)
				}
				continue
			}
			n.logger.Warn("push: send notification", "user_id", userID, "error", err)
		}
	}
}
