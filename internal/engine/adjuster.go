package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// Breach is a recorded violation or adjustment of a fund's trading terms.
// Breaches annotate an otherwise-emitted trade; they never block it.
type Breach string

const (
	// BreachBelowMinimum marks a subscription below the fund's minimum.
	// Sub-minimum subscriptions are not partially filled: the amount is
	// dropped to zero and the breach recorded.
	BreachBelowMinimum Breach = "BelowMinimum"

	// BreachNoticeMissed marks a notice date that had already passed when the
	// run was requested. The trade is still generated with the requested
	// dates; disposition is a downstream review decision.
	BreachNoticeMissed Breach = "NoticeMissed"

	// BreachCutoffExceeded marks a notice that arrived past the fund's daily
	// cutoff and was pushed one business day later.
	BreachCutoffExceeded Breach = "CutoffExceeded"

	// BreachGuidelineMaxWeight marks a subscription that takes the fund past
	// the portfolio's advisory max single-fund weight.
	BreachGuidelineMaxWeight Breach = "GuidelineMaxWeight"
)

// Candidate is one constrained trade instruction ready for the ledger.
type Candidate struct {
	Isin           string
	NoticeDate     time.Time
	TradeDate      time.Time
	SettlementDate time.Time
	Amount         float64 // signed: positive subscription, negative redemption
	Shares         float64
	Note           string
	Breaches       []Breach
}

// FundFailure records a fund whose trade could not be produced. Failures are
// collected per fund so one bad fund does not sink the rest of the batch.
type FundFailure struct {
	Isin string
	Err  error
}

// adjust applies each fund's notice, settlement, minimum and cutoff terms to
// the planned deltas and derives the date chain through the calendar
// resolver. Funds are processed in ascending rank order, ties broken by ISIN,
// so partial-fulfilment priority is deterministic.
func adjust(in Input, deltas map[string]float64) ([]Candidate, []FundFailure) {
	order := rankOrder(in.Funds, deltas)

	var (
		candidates []Candidate
		failures   []FundFailure
	)
	for _, isin := range order {
		fund := in.Funds[isin]
		candidate, err := adjustOne(in, fund, deltas[isin])
		if err != nil {
			failures = append(failures, FundFailure{Isin: isin, Err: err})
			continue
		}
		candidates = append(candidates, candidate)
	}
	return candidates, failures
}

// rankOrder sorts the funds with non-zero deltas by (rank asc, ISIN asc).
func rankOrder(funds TermsRegistry, deltas map[string]float64) []string {
	isins := make([]string, 0, len(deltas))
	for isin := range deltas {
		isins = append(isins, isin)
	}
	sort.Slice(isins, func(i, j int) bool {
		ri, rj := funds[isins[i]].Terms.Rank, funds[isins[j]].Terms.Rank
		if ri != rj {
			return ri < rj
		}
		return isins[i] < isins[j]
	})
	return isins
}

// adjustOne runs the per-fund constraint pipeline:
// classify, minimum check, notice date, cutoff check, settlement date,
// share derivation. Checks attach breaches but do not abort; only a missing
// price or calendar fails the fund.
func adjustOne(in Input, fund model.Fund, delta float64) (Candidate, error) {
	terms := fund.Terms
	isSubscription := delta > 0

	amount := delta
	var breaches []Breach

	noticeDays := terms.RedNotice
	settlementDays := terms.RedSettlement
	if isSubscription {
		noticeDays = terms.SubNotice
		settlementDays = terms.SubSettlement

		if amount < terms.SubMinimum {
			amount = 0
			breaches = append(breaches, BreachBelowMinimum)
		}
	}

	noticeDate, err := in.Calendars.AddBusinessDays(in.TradeDate, -noticeDays, terms.Calendars)
	if err != nil {
		return Candidate{}, err
	}

	asOfDay := dateOf(in.AsOf)
	if noticeDate.Before(asOfDay) {
		// Deadline already passed for the requested trade date. Keep the
		// originally derived dates; flag only.
		breaches = append(breaches, BreachNoticeMissed)
	} else if noticeDate.Equal(asOfDay) && pastCutoff(in.AsOf, terms.CutoffTime) {
		pushed, err := in.Calendars.AddBusinessDays(noticeDate, 1, terms.Calendars)
		if err != nil {
			return Candidate{}, err
		}
		if pushed.After(in.TradeDate) {
			// No later notice day fits before the trade date, so the
			// deadline is missed rather than movable. Keep the derived
			// dates; the chain must stay notice <= trade <= settlement.
			breaches = append(breaches, BreachNoticeMissed)
		} else {
			noticeDate = pushed
			breaches = append(breaches, BreachCutoffExceeded)
		}
	}

	settlementDate, err := in.Calendars.AddBusinessDays(in.TradeDate, settlementDays, terms.Calendars)
	if err != nil {
		return Candidate{}, err
	}

	var shares float64
	if amount != 0 {
		price, ok := in.Snapshot.PriceAsOf(fund.Isin, in.TradeDate)
		if !ok {
			return Candidate{}, fmt.Errorf("%w: fund %s", apperrors.ErrNoPriceAvailable, fund.Isin)
		}
		shares = amount / price
	}

	if isSubscription && amount > 0 {
		if breach, ok := guidelineBreach(in, fund.Isin, amount); ok {
			breaches = append(breaches, breach)
		}
	}

	note := fmt.Sprintf("mode=%s weight=%s delta=%.2f notice=%dbd settlement=%dbd",
		in.Mode, weightNote(in, fund), delta, noticeDays, settlementDays)

	return Candidate{
		Isin:           fund.Isin,
		NoticeDate:     noticeDate,
		TradeDate:      in.TradeDate,
		SettlementDate: settlementDate,
		Amount:         amount,
		Shares:         shares,
		Note:           note,
		Breaches:       breaches,
	}, nil
}

// guidelineBreach checks the advisory max single-fund weight after the trade.
// Guidelines report, they never reject.
func guidelineBreach(in Input, isin string, amount float64) (Breach, bool) {
	if in.GuidelineMaxWeight == nil {
		return "", false
	}
	base := in.Snapshot.TotalValue(in.TradeDate) + in.NetFlow
	if base <= 0 {
		return "", false
	}
	postWeight := (in.Snapshot.CurrentValue(isin, in.TradeDate) + amount) / base * 100
	if postWeight > float64(*in.GuidelineMaxWeight) {
		return BreachGuidelineMaxWeight, true
	}
	return "", false
}

// weightNote renders the fund's target weight for the trade note, or "none"
// when the fund was traded only because it fell out of the target set.
func weightNote(in Input, fund model.Fund) string {
	if weight, ok := in.TargetWeights[fund.IndexIsin]; ok {
		return fmt.Sprintf("%.2f%%", weight)
	}
	return "none"
}

// pastCutoff reports whether the request timestamp falls after the fund's
// daily cutoff. A missing or malformed cutoff means no cutoff applies.
func pastCutoff(asOf time.Time, cutoff string) bool {
	t, err := time.Parse("15:04", cutoff)
	if err != nil {
		return false
	}
	requested := asOf.Hour()*60 + asOf.Minute()
	deadline := t.Hour()*60 + t.Minute()
	return requested > deadline
}

// dateOf truncates a timestamp to its calendar day.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
