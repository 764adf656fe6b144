package usecase

import (
	"errors"
	"strings"
	"time"

	"iot-ledger-backend/internal/model"
	"iot-ledger-backend/internal/repository"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAddress     = errors.New("address must be a 0x-prefixed 20-byte hex string")
	ErrInvalidCredentials = errors.New("invalid address or password")
)

// UserUsecase handles account signup and login. An account is identified by
// its address; the JWT is just a session wrapper around that identity.
type UserUsecase struct {
	repo      *repository.UserRepository
	jwtSecret []byte
}

func NewUserUsecase(repo *repository.UserRepository, jwtSecret string) *UserUsecase {
	return &UserUsecase{repo: repo, jwtSecret: []byte(jwtSecret)}
}

func (u *UserUsecase) Register(address, password string) (*model.User, error) {
	if !common.IsHexAddress(address) {
		return nil, ErrInvalidAddress
	}

	// 1. Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	// 2. Store with the canonical checksummed address
	user := &model.User{
		Address:  common.HexToAddress(address).Hex(),
		Password: string(hashedPassword),
	}
	if err := u.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *UserUsecase) Login(address, password string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", ErrInvalidCredentials
	}

	// 1. Look up the account
	user, err := u.repo.GetByAddress(common.HexToAddress(address).Hex())
	if err != nil {
		return "", ErrInvalidCredentials
	}

	// 2. Compare password against the stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	// 3. Issue the JWT
	claims := jwt.MapClaims{
		"address": user.Address,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(u.jwtSecret)
}

// ParseToken validates a bearer token and returns the caller address.
func (u *UserUsecase) ParseToken(tokenString string) (string, error) {
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredentials
		}
		return u.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	address, ok := claims["address"].(string)
	if !ok {
		return "", ErrInvalidCredentials
	}
	return address, nil
}
