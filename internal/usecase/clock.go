package usecase

import "time"

// 現在時刻の取得を差し替えられるようにする約束（テスト用）
type Clock interface {
	Now() time.Time
}
