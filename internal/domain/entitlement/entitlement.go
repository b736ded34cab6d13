// Package entitlement decides whether a user may download a file right now.
// The decision is a pure function of role, subscription state and the daily
// quota counters; it performs no I/O. Charging the quota is a separate step
// done by the user repository only after a successful storage fetch.
package entitlement

import (
	"time"

	"design-market-api/internal/domain/user"
)

// DateLayout is the calendar-day format used by the quota counters.
const DateLayout = "2006-01-02"

type DenyReason string

const (
	ReasonAuthenticationRequired DenyReason = "authentication_required"
	ReasonDailyLimitReached      DenyReason = "daily_limit_reached"
	ReasonSubscriptionRequired   DenyReason = "subscription_required"
)

type Decision struct {
	Allow  bool
	Reason DenyReason
	// ChargeQuota is set when the download, once completed, must be
	// charged against the daily counter. Admins are never charged;
	// subscribers are charged on total_downloads only.
	ChargeQuota bool
	// CountTotal is set for every non-admin allowed download.
	CountTotal bool
}

func allow(chargeQuota, countTotal bool) Decision {
	return Decision{Allow: true, ChargeQuota: chargeQuota, CountTotal: countTotal}
}

func deny(reason DenyReason) Decision {
	return Decision{Allow: false, Reason: reason}
}

// Evaluator holds the free-tier limit. The limit comes from configuration
// and is fixed for the process lifetime.
type Evaluator struct {
	freeDailyLimit int
}

func NewEvaluator(freeDailyLimit int) *Evaluator {
	return &Evaluator{freeDailyLimit: freeDailyLimit}
}

// Evaluate runs the download gate for a profile at the given moment.
// A nil profile means no authenticated session.
func (e *Evaluator) Evaluate(u *user.User, now time.Time) Decision {
	if u == nil {
		return deny(ReasonAuthenticationRequired)
	}
	if u.IsAdmin() {
		return allow(false, false)
	}
	if u.Subscribed(now) {
		return allow(false, true)
	}
	if EffectiveDailyCount(u, now) >= e.freeDailyLimit {
		return deny(ReasonDailyLimitReached)
	}
	return allow(true, true)
}

// EffectiveDailyCount is the daily counter as of now: the stored value only
// counts while last_download_date is today, any stale date reads as zero.
// The stored row is never mutated here.
func EffectiveDailyCount(u *user.User, now time.Time) int {
	if u.LastDownloadDate != now.UTC().Format(DateLayout) {
		return 0
	}
	return u.DailyDownloads
}
