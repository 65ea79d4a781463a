package transaction

import (
	"context"
	"log"

	"forbill/internal/services/wallet"
)

// reservation is a scoped hold on wallet funds. The debit happens when
// the reservation is taken; the hold must then end in exactly one of
// Commit (the purchase succeeded, funds stay gone) or Release (the funds
// go back). Callers arrange Release as a deferred backstop so that no
// exit path, panics included, leaves a debited wallet paired with an
// unfinished transaction.
type reservation struct {
	wallet   wallet.Service
	userID   uint
	amount   float64
	settled  bool
	released bool
}

// reserve debits the wallet and returns the hold. A debit failure means
// no reservation exists and nothing needs compensating.
func reserve(ctx context.Context, w wallet.Service, userID uint, amount float64) (*reservation, error) {
	if err := w.Debit(ctx, userID, amount); err != nil {
		return nil, err
	}
	return &reservation{wallet: w, userID: userID, amount: amount}, nil
}

// Commit finalizes the hold; the debited funds are spent.
func (r *reservation) Commit() {
	r.settled = true
}

// Release credits the debited amount back. It is idempotent and a no-op
// after Commit.
func (r *reservation) Release(ctx context.Context) error {
	if r.settled {
		return nil
	}
	r.settled = true
	if err := r.wallet.Credit(ctx, r.userID, r.amount); err != nil {
		// A failed credit-back is the one state the coordinator cannot
		// repair on its own; it needs an operator.
		log.Printf("CRITICAL: failed to refund %.2f to user %d: %v", r.amount, r.userID, err)
		return err
	}
	r.released = true
	return nil
}

// Settled reports whether the hold has been committed or released.
func (r *reservation) Settled() bool {
	return r.settled
}

// Released reports whether the funds actually went back to the wallet.
func (r *reservation) Released() bool {
	return r.released
}
