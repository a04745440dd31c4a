package session

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stores returns each Store implementation under a fresh state.
func stores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "state", "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })
	return map[string]Store{
		"memory": NewMemory(),
		"sqlite": sq,
	}
}

func TestStore_GetSetDeleteClear(t *testing.T) {
	for name, st := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := st.Get(KeyToken)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, st.Set(KeyToken, "abc"))
			require.NoError(t, st.Set(KeyToken, "def"))
			v, ok, err := st.Get(KeyToken)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "def", v)

			require.NoError(t, st.Set(KeyAccountType, "DOCTOR"))
			require.NoError(t, st.Delete(KeyToken))
			_, ok, _ = st.Get(KeyToken)
			assert.False(t, ok)

			require.NoError(t, st.Clear())
			_, ok, _ = st.Get(KeyAccountType)
			assert.False(t, ok)
		})
	}
}

func TestSQLite_PersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	first, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(KeyToken, "persisted"))
	require.NoError(t, first.Close())

	_, _, err = first.Get(KeyToken)
	assert.ErrorIs(t, err, ErrClosed)

	second, err := OpenSQLite(path)
	require.NoError(t, err)
	defer second.Close()
	v, ok, err := second.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", v)
}

func TestLoadSave(t *testing.T) {
	st := NewMemory()
	_, err := Load(st)
	assert.ErrorIs(t, err, ErrNoSession)

	want := Session{Token: "t", AccountType: "ADMIN", FirstName: "Asha", LastName: "Rao"}
	require.NoError(t, Save(st, want))
	got, err := Load(st)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, "Asha Rao", got.DisplayName())
	assert.Equal(t, "Rao", Session{LastName: "Rao"}.DisplayName())
}

func TestSelectedHandoff(t *testing.T) {
	type patient struct {
		ID        int64  `json:"id"`
		FirstName string `json:"firstName"`
	}
	st := NewMemory()
	var p patient
	ok, err := GetSelected(st, KeySelectedPatient, &p)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, PutSelected(st, KeySelectedPatient, patient{ID: 7, FirstName: "Amy"}))
	ok, err = GetSelected(st, KeySelectedPatient, &p)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, patient{ID: 7, FirstName: "Amy"}, p)

	require.NoError(t, st.Set(KeySelectedPatient, "{not json"))
	_, err = GetSelected(st, KeySelectedPatient, &p)
	assert.Error(t, err)
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return tok
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	tok := signed(t, jwt.MapClaims{"sub": "asha@example.com", "exp": exp.Unix()})

	got, ok := TokenExpiry(tok)
	require.True(t, ok)
	assert.True(t, got.Equal(exp))

	s := Session{Token: tok}
	assert.False(t, s.Expired(exp.Add(-time.Minute)))
	assert.True(t, s.Expired(exp))

	_, ok = TokenExpiry("not-a-jwt")
	assert.False(t, ok)
	assert.False(t, Session{Token: "opaque"}.Expired(time.Now()), "unreadable tokens are left to the server")

	noExp := signed(t, jwt.MapClaims{"sub": "x"})
	_, ok = TokenExpiry(noExp)
	assert.False(t, ok)
}
