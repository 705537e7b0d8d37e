package checker

import (
	"regexp"

	"github.com/linkscout/linkscout/internal/model"
)

// mailPattern is the minimal syntactic validity rule for mail targets.
// No network verification is performed: a well-formed address is a
// success whether or not the mailbox exists.
var mailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// checkMail validates a mail target syntactically.
func (c *Checker) checkMail(t *model.Target) model.CheckResult {
	res := baseResult(t)

	if mailPattern.MatchString(t.Mail) {
		res.Status = model.StatusSuccess
		return res
	}

	res.Status = model.StatusFailure
	res.FailureReason = model.FailureInvalidMail
	res.Detail = t.Mail
	return res
}
