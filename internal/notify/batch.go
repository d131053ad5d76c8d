package notify

import (
	"context"

	"github.com/nhle/sitehub-notify/internal/classify"
	"github.com/nhle/sitehub-notify/internal/logx"
	"github.com/nhle/sitehub-notify/internal/model"
)

// NotifyMultipleUsers sends the same body to each user in userIDs,
// sequentially and in order, with body.UserID replaced per recipient.
// label, when non-empty, is used as the context for every recipient.
//
// Under model.BatchPolicyAbort the first failure stops the run; the
// notifications created so far are returned with a *RecipientError.
// Under model.BatchPolicyContinue every recipient is attempted; the
// successes are returned in input order with a *BatchError listing the
// failures.
func (s *Service) NotifyMultipleUsers(
	ctx context.Context,
	userIDs []int64,
	body Params,
	label classify.Label,
) ([]*model.Notification, error) {
	out := make([]*model.Notification, 0, len(userIDs))
	var failures []*RecipientError

	for _, id := range userIDs {
		p := body
		p.UserID = id

		n, err := s.Create(ctx, p, Overrides{Context: label})
		if err != nil {
			rerr := &RecipientError{UserID: id, Err: err}
			if s.cfg.BatchPolicy != model.BatchPolicyContinue {
				return out, rerr
			}
			failures = append(failures, rerr)
			continue
		}
		out = append(out, n)
	}

	if len(failures) > 0 {
		berr := &BatchError{Failures: failures}
		s.log.Warn("batch finished with failures",
			logx.Int("recipients", len(userIDs)),
			logx.Any("failed_user_ids", berr.FailedUserIDs()))
		return out, berr
	}
	return out, nil
}
