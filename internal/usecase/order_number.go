package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	repo "shop/internal/repository"
)

// 1日あたりの連番上限。超えたら黙って丸めずエラーにする。
const maxDailySequence = 9999

// nextOrderNumberは「FA+YYYYMMDD+連番4桁」の注文番号を採番する。
// 連番は日ごとに0001から始まる。必ず注文INSERTと同じTxの中で呼ぶこと。
func nextOrderNumber(ctx context.Context, counters repo.OrderCounterRepository, prefix string, now time.Time) (string, error) {
	dayKey := now.Format("20060102")

	seq, err := counters.NextSequence(ctx, dayKey)
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if seq > maxDailySequence {
		return "", NewCodedError(http.StatusConflict, CodeSequenceOverflow, "daily order numbers exhausted")
	}

	return fmt.Sprintf("%s%s%04d", prefix, dayKey, seq), nil
}
