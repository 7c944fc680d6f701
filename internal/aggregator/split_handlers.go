package aggregator

import (
	"math/big"

	"github.com/sirupsen/logrus"

	"github.com/rxtech-lab/split-indexer/internal/constants"
	"github.com/rxtech-lab/split-indexer/internal/events"
	"github.com/rxtech-lab/split-indexer/internal/metrics"
	"github.com/rxtech-lab/split-indexer/internal/models"
)

func (a *Aggregator) handleSplitCreated(e *events.SplitCreated) error {
	creator := lower(e.Creator)

	// Creator first, then initial members deduplicated in arrival order.
	members := models.AddressList{creator}
	for _, m := range e.InitialMembers {
		addr := lower(m)
		if !members.Contains(addr) {
			members = append(members, addr)
		}
	}

	split := &models.Split{
		ID:           e.SplitID,
		ChainID:      e.ChainID,
		Creator:      creator,
		Members:      members,
		DefaultToken: lower(e.DefaultToken),
		TotalDebt:    models.ZeroBigInt(),
		Timestamp:    e.BlockTimestamp,
		TxHash:       e.TxHash.Hex(),
	}
	if err := a.ledger.SaveSplit(split); err != nil {
		return err
	}

	activity, err := a.userActivity(creator, e.ChainID)
	if err != nil {
		return err
	}
	if !activity.Splits.Contains(e.SplitID) {
		activity.Splits = append(activity.Splits, e.SplitID)
	}
	activity.TransactionCount++
	activity.TotalGasSpent.Add(&activity.TotalGasSpent.Int, e.GasCost())
	if err := a.ledger.SaveUserActivity(activity); err != nil {
		return err
	}

	for _, member := range members[1:] {
		memberActivity, err := a.userActivity(member, e.ChainID)
		if err != nil {
			return err
		}
		if !memberActivity.Splits.Contains(e.SplitID) {
			memberActivity.Splits = append(memberActivity.Splits, e.SplitID)
		}
		if err := a.ledger.SaveUserActivity(memberActivity); err != nil {
			return err
		}
	}

	return a.recordTransaction(e.Meta, models.TransactionTypeCreateSplit, creator, lower(e.Contract), nil, split.DefaultToken, e.SplitID)
}

func (a *Aggregator) handleMemberAdded(e *events.MemberAdded) error {
	member := lower(e.Member)

	split, err := a.ledger.GetSplit(e.SplitID)
	switch {
	case err == nil:
		if !split.Members.Contains(member) {
			split.Members = append(split.Members, member)
			if err := a.ledger.SaveSplit(split); err != nil {
				return err
			}
		}
	case isNotFound(err):
		a.skip(e.Kind(), metrics.ReasonMissingEntity, logrus.Fields{"split": e.SplitID})
	default:
		return err
	}

	// The member's activity references the split even when the split row has
	// not been indexed yet.
	activity, err := a.userActivity(member, e.ChainID)
	if err != nil {
		return err
	}
	if !activity.Splits.Contains(e.SplitID) {
		activity.Splits = append(activity.Splits, e.SplitID)
	}
	if err := a.ledger.SaveUserActivity(activity); err != nil {
		return err
	}

	return a.recordTransaction(e.Meta, models.TransactionTypeAddMember, member, lower(e.Contract), nil, "", e.SplitID)
}

func (a *Aggregator) handleMemberRemoved(e *events.MemberRemoved) error {
	member := lower(e.Member)

	split, err := a.ledger.GetSplit(e.SplitID)
	switch {
	case err == nil:
		split.Members = split.Members.Remove(member)
		if err := a.ledger.SaveSplit(split); err != nil {
			return err
		}

		activity, err := a.ledger.GetUserActivity(member)
		if err == nil {
			activity.Splits = activity.Splits.Remove(e.SplitID)
			if err := a.ledger.SaveUserActivity(activity); err != nil {
				return err
			}
		} else if !isNotFound(err) {
			return err
		}
	case isNotFound(err):
		a.skip(e.Kind(), metrics.ReasonMissingEntity, logrus.Fields{"split": e.SplitID})
	default:
		return err
	}

	return a.recordTransaction(e.Meta, models.TransactionTypeRemoveMember, member, lower(e.Contract), nil, "", e.SplitID)
}

func (a *Aggregator) handleSpendingAdded(e *events.SpendingAdded) error {
	payer := lower(e.Payer)
	token := lower(e.Token)

	forWho := make(models.AddressList, 0, len(e.ForWho))
	for _, p := range e.ForWho {
		forWho = append(forWho, lower(p))
	}

	spending := &models.Spending{
		ID:         models.SpendingKey(e.SplitID, e.SpendingID),
		SplitID:    e.SplitID,
		SpendingID: e.SpendingID,
		Title:      e.Title,
		Payer:      payer,
		Amount:     models.NewBigInt(e.Amount),
		ForWho:     forWho,
		Token:      token,
		Timestamp:  e.BlockTimestamp,
		TxHash:     e.TxHash.Hex(),
	}
	if err := a.ledger.SaveSpending(spending); err != nil {
		return err
	}

	activity, err := a.userActivity(payer, e.ChainID)
	if err != nil {
		return err
	}
	if token == constants.AddressZero {
		activity.TotalSpentETH.Add(&activity.TotalSpentETH.Int, e.Amount)
	} else {
		activity.TotalSpentUSD.Add(&activity.TotalSpentUSD.Int, e.Amount)
	}
	activity.TransactionCount++
	activity.TotalGasSpent.Add(&activity.TotalGasSpent.Int, e.GasCost())
	if err := a.ledger.SaveUserActivity(activity); err != nil {
		return err
	}

	// Integer floor division over the full participant list. The remainder is
	// dropped, never redistributed; when the payer is listed, their implicit
	// self-share is simply never recorded as a debt.
	share := new(big.Int)
	if len(forWho) > 0 {
		share.Div(e.Amount, big.NewInt(int64(len(forWho))))
	}

	split, err := a.ledger.GetSplit(e.SplitID)
	if isNotFound(err) {
		a.skip(e.Kind(), metrics.ReasonMissingEntity, logrus.Fields{"split": e.SplitID})
		split = nil
	} else if err != nil {
		return err
	}

	seen := map[string]bool{}
	for _, participant := range forWho {
		if participant == payer || seen[participant] {
			continue
		}
		seen[participant] = true

		debtID := models.DebtKey(e.SplitID, participant, payer)
		debt, err := a.ledger.GetDebt(debtID)
		if isNotFound(err) {
			debt = &models.Debt{
				ID:       debtID,
				SplitID:  e.SplitID,
				Debtor:   participant,
				Creditor: payer,
			}
		} else if err != nil {
			return err
		}
		debt.Amount.Add(&debt.Amount.Int, share)
		if err := a.ledger.SaveDebt(debt); err != nil {
			return err
		}

		// Split.totalDebt mirrors the sum of its debts; both rows move in the
		// same logical transaction.
		if split != nil {
			split.TotalDebt.Add(&split.TotalDebt.Int, share)
		}
	}

	if split != nil {
		if err := a.ledger.SaveSplit(split); err != nil {
			return err
		}
	}

	return a.recordTransaction(e.Meta, models.TransactionTypeAddSpending, payer, lower(e.Contract), e.Amount, token, e.SplitID)
}

func (a *Aggregator) handleDebtPaid(e *events.DebtPaid) error {
	debtor := lower(e.Debtor)
	creditor := lower(e.Creditor)
	token := lower(e.Token)

	debtID := models.DebtKey(e.SplitID, debtor, creditor)
	debt, err := a.ledger.GetDebt(debtID)
	switch {
	case err == nil:
		// Not clamped at zero: an overpayment leaves a negative residual.
		debt.Amount.Sub(&debt.Amount.Int, e.Amount)
		if debt.Amount.Sign() <= 0 {
			debt.IsPaid = true
			debt.PaidAt = e.BlockTimestamp
			debt.SettledTx = e.TxHash.Hex()
		}
		if err := a.ledger.SaveDebt(debt); err != nil {
			return err
		}
	case isNotFound(err):
		// The payment row below is still recorded, dangling.
		a.skip(e.Kind(), metrics.ReasonMissingEntity, logrus.Fields{"debt": debtID})
	default:
		return err
	}

	payment := &models.DebtPayment{
		ID:        models.DebtPaymentKey(e.TxHash.Hex(), e.LogIndex),
		DebtID:    debtID,
		SplitID:   e.SplitID,
		Debtor:    debtor,
		Creditor:  creditor,
		Amount:    models.NewBigInt(e.Amount),
		Token:     token,
		Timestamp: e.BlockTimestamp,
		TxHash:    e.TxHash.Hex(),
	}
	if err := a.ledger.SaveDebtPayment(payment); err != nil {
		return err
	}

	// Decremented by the full paid amount whether or not the debt row existed
	// or was already settled.
	split, err := a.ledger.GetSplit(e.SplitID)
	switch {
	case err == nil:
		split.TotalDebt.Sub(&split.TotalDebt.Int, e.Amount)
		if err := a.ledger.SaveSplit(split); err != nil {
			return err
		}
	case isNotFound(err):
		a.skip(e.Kind(), metrics.ReasonMissingEntity, logrus.Fields{"split": e.SplitID})
	default:
		return err
	}

	creditorActivity, err := a.userActivity(creditor, e.ChainID)
	if err != nil {
		return err
	}
	if token == constants.AddressZero {
		creditorActivity.TotalReceivedETH.Add(&creditorActivity.TotalReceivedETH.Int, e.Amount)
	} else {
		creditorActivity.TotalReceivedUSD.Add(&creditorActivity.TotalReceivedUSD.Int, e.Amount)
	}
	if err := a.ledger.SaveUserActivity(creditorActivity); err != nil {
		return err
	}

	debtorActivity, err := a.userActivity(debtor, e.ChainID)
	if err != nil {
		return err
	}
	debtorActivity.TransactionCount++
	debtorActivity.TotalGasSpent.Add(&debtorActivity.TotalGasSpent.Int, e.GasCost())
	if err := a.ledger.SaveUserActivity(debtorActivity); err != nil {
		return err
	}

	return a.recordTransaction(e.Meta, models.TransactionTypePayDebt, debtor, creditor, e.Amount, token, e.SplitID)
}
