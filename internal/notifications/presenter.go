package notifications

import "log/slog"

// LogPresenter writes the consolidated set to the structured log. It stands
// in for a platform notification backend on headless deployments.
type LogPresenter struct {
	log *slog.Logger
}

func NewLogPresenter(log *slog.Logger) *LogPresenter {
	return &LogPresenter{log: log}
}

func (p *LogPresenter) Present(notifications []Notification) {
	if len(notifications) == 0 {
		p.log.Debug("no active notifications")

		return
	}
	for _, n := range notifications {
		p.log.Info("notification",
			"group_id", n.GroupId,
			"chat_id", n.ChatId,
			"chat_title", n.ChatTitle,
			"total_count", n.TotalCount,
			"summaries", n.Summaries,
		)
	}
}
