package public

import (
	"github.com/anovaledger/anova/business/sys/validate"
	"github.com/anovaledger/anova/foundation/ledger/database"
)

type newTx struct {
	Sender string `json:"sender" validate:"required"`
	Nonce  uint64 `json:"nonce" validate:"required,gt=0"`
}

// Validate checks the data in the model is considered clean.
func (app newTx) Validate() error {
	if err := validate.Check(app); err != nil {
		return err
	}
	return nil
}

type submitResponse struct {
	Status string      `json:"status"`
	Tx     database.Tx `json:"tx"`
}

type heightResponse struct {
	Height *uint64 `json:"height,omitempty"`
}

type sampleResponse struct {
	Account string  `json:"account"`
	Height  *uint64 `json:"height,omitempty"`
	Mempool int     `json:"mempool"`
	Peers   int     `json:"peers"`
}
