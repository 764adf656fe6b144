package model

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Address  string `json:"address" gorm:"uniqueIndex;not null"` // 0x-prefixed hex account address, the caller identity
	Password string `json:"-"`
}
