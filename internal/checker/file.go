package checker

import (
	"os"

	"github.com/linkscout/linkscout/internal/model"
)

// checkFile validates a local file target: the path must exist and,
// when anchor checking is enabled and the link carried a fragment, the
// target document must contain the anchor. No network I/O, never
// retried.
func (c *Checker) checkFile(t *model.Target) model.CheckResult {
	res := baseResult(t)

	info, err := os.Stat(t.Path)
	if err != nil {
		res.Status = model.StatusFailure
		res.FailureReason = model.FailureNotFound
		res.Detail = err.Error()
		return res
	}

	if t.Fragment != "" && c.checkAnchors && !info.IsDir() {
		ok, err := anchorExists(t.Path, t.Fragment)
		if err != nil {
			res.Status = model.StatusFailure
			res.FailureReason = model.FailureNotFound
			res.Detail = err.Error()
			return res
		}
		if !ok {
			res.Status = model.StatusFailure
			res.FailureReason = model.FailureMissingAnchor
			res.Detail = "#" + t.Fragment
			return res
		}
	}

	res.Status = model.StatusSuccess
	return res
}
