package model

// 日ごとの注文番号カウンタ。
// 同日同番号の衝突を防ぐため、加算はUPSERT 1文で行う。
type OrderCounter struct {
	//YYYYMMDD
	DayKey  string `gorm:"primaryKey;type:varchar(8)" json:"day_key"`
	LastSeq int64  `gorm:"not null" json:"last_seq"`
}
