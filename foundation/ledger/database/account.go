package database

import (
	"crypto/ecdsa"

	"github.com/anovaledger/anova/foundation/ledger/encode"
	"github.com/ethereum/go-ethereum/crypto"
)

// PublicKeyToAccountID converts the public key to an account id, the digest
// used as the sender of every transaction the key holder creates.
func PublicKeyToAccountID(pk ecdsa.PublicKey) encode.Digest {
	return encode.Hash(crypto.FromECDSAPub(&pk))
}
