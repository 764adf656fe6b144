package signature

import (
	"crypto/ecdsa"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrInvalidSignature = errors.New("invalid signature")

var (
	domainTypeHash = crypto.Keccak256Hash(
		[]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	registrationTypeHash = crypto.Keccak256Hash(
		[]byte("DeviceRegistration(bytes32 deviceHash,string deviceType,string manufacturer,string model,string location)"))
)

// Domain is the fixed EIP-712 signing domain. Registrations signed for a
// different domain never verify.
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract common.Address
}

// Registration is the typed payload a device manager co-signs to authorize
// a registration.
type Registration struct {
	DeviceHash   common.Hash
	DeviceType   string
	Manufacturer string
	Model        string
	Location     string
}

func (d Domain) separator() common.Hash {
	return crypto.Keccak256Hash(
		domainTypeHash.Bytes(),
		crypto.Keccak256([]byte(d.Name)),
		crypto.Keccak256([]byte(d.Version)),
		common.BigToHash(new(big.Int).SetUint64(d.ChainID)).Bytes(),
		common.BytesToHash(d.VerifyingContract.Bytes()).Bytes(),
	)
}

// Digest computes the EIP-712 signing digest for a registration:
// keccak256("\x19\x01" ‖ domainSeparator ‖ structHash).
func (d Domain) Digest(reg Registration) common.Hash {
	structHash := crypto.Keccak256Hash(
		registrationTypeHash.Bytes(),
		reg.DeviceHash.Bytes(),
		crypto.Keccak256([]byte(reg.DeviceType)),
		crypto.Keccak256([]byte(reg.Manufacturer)),
		crypto.Keccak256([]byte(reg.Model)),
		crypto.Keccak256([]byte(reg.Location)),
	)
	return crypto.Keccak256Hash([]byte("\x19\x01"), d.separator().Bytes(), structHash.Bytes())
}

// Recover returns the address that signed the registration. Accepts both
// 0/1 and 27/28 recovery identifiers.
func (d Domain) Recover(reg Registration, sig []byte) (common.Address, error) {
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, ErrInvalidSignature
	}
	normalized := make([]byte, crypto.SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	pub, err := crypto.SigToPub(d.Digest(reg).Bytes(), normalized)
	if err != nil {
		return common.Address{}, ErrInvalidSignature
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Sign produces a registration signature with the given key.
func (d Domain) Sign(reg Registration, key *ecdsa.PrivateKey) ([]byte, error) {
	return crypto.Sign(d.Digest(reg).Bytes(), key)
}
