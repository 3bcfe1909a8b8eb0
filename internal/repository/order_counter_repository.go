package repository

import "context"

// 日ごとの注文連番。
type OrderCounterRepository interface {
	//その日の次の連番を採番する（原子的）。必ず注文INSERTと同じTxで呼ぶ。
	NextSequence(ctx context.Context, dayKey string) (int64, error)
}
