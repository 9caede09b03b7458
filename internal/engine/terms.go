package engine

import (
	"fmt"

	"github.com/ndewijer/Fund-Trading-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Trading-Backend/internal/model"
)

// TermsRegistry is a read-only lookup of fund trading terms keyed by ISIN,
// snapshotted from the fund table at the start of a generation run. It is the
// source of every constraint parameter the adjuster applies.
type TermsRegistry map[string]model.Fund

// Lookup returns the fund for an ISIN or apperrors.ErrFundNotFound.
func (r TermsRegistry) Lookup(isin string) (model.Fund, error) {
	fund, ok := r[isin]
	if !ok {
		return model.Fund{}, fmt.Errorf("%w: %s", apperrors.ErrFundNotFound, isin)
	}
	return fund, nil
}

// byIndexIsin returns the ISINs of active registry funds tracking the given
// index. Retired funds stay in the registry so existing holdings can redeem,
// but they never receive target weight.
func (r TermsRegistry) byIndexIsin(indexIsin string) []string {
	var isins []string
	for isin, fund := range r {
		if fund.IndexIsin == indexIsin && fund.Status == model.StatusActive {
			isins = append(isins, isin)
		}
	}
	return isins
}
