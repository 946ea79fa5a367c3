package repository

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"booking-api/internal/model"
)

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%abc%", containsPattern("abc"))
	assert.Equal(t, `%50\%%`, containsPattern("50%"))
	assert.Equal(t, `%a\_b%`, containsPattern("a_b"))
	assert.Equal(t, `%c:\\tmp%`, containsPattern(`c:\tmp`))
}

func TestNormalizeAuditPage(t *testing.T) {
	q := model.AuditQuery{Page: 0, Limit: 0}
	normalizeAuditPage(&q)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, defaultAuditLimit, q.Limit)

	q = model.AuditQuery{Page: math.MaxInt, Limit: 10_000}
	normalizeAuditPage(&q)
	assert.Equal(t, maxAuditPage, q.Page)
	assert.Equal(t, maxAuditLimit, q.Limit)
	assert.Positive(t, (q.Page-1)*q.Limit)
}
