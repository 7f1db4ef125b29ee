package model

type Setting struct {
	Key       string `json:"key" gorm:"primaryKey;size:64"`
	Value     string `json:"value"`
	Desc      string `json:"desc"`
	Category  string `json:"category" gorm:"size:32"`
	Sensitive bool   `json:"sensitive" gorm:"default:false"`
}
