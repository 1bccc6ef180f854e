package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/groupflow-app/groupflow/internal/domain/repositories"
)

func TestTranslateError(t *testing.T) {
	opaque := errors.New("connection reset by peer")

	cases := []struct {
		name string
		in   error
		want error
	}{
		{name: "nil passes through", in: nil, want: nil},
		{name: "sentinel passes through", in: repositories.ErrDuplicate, want: repositories.ErrDuplicate},
		{name: "gorm record not found", in: gorm.ErrRecordNotFound, want: repositories.ErrNotFound},
		{
			name: "unique violation",
			in:   errors.New(`ERROR: duplicate key value violates unique constraint "idx_activity_idem_key" (SQLSTATE 23505)`),
			want: repositories.ErrDuplicate,
		},
		{
			// A ledger reservation against an unknown activity trips the FK
			// before any usecase lookup; it must surface as not-found.
			name: "foreign key violation",
			in:   errors.New(`ERROR: insert or update on table "idempotency_records" violates foreign key constraint "idempotency_records_activity_id_fkey" (SQLSTATE 23503)`),
			want: repositories.ErrNotFound,
		},
		{
			name: "serialization failure",
			in:   errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)"),
			want: repositories.ErrTransient,
		},
		{
			name: "deadlock",
			in:   errors.New("ERROR: deadlock detected (SQLSTATE 40P01)"),
			want: repositories.ErrTransient,
		},
		{name: "unknown error passes through", in: opaque, want: opaque},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := translateError(tc.in)
			if tc.want == nil {
				require.NoError(t, got)
				return
			}
			require.ErrorIs(t, got, tc.want)
		})
	}
}
