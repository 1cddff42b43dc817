package storage_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/invoice-bridge/internal/domain/entity"
	"github.com/tu-usuario/invoice-bridge/internal/infrastructure/storage"
)

func buildSnapshotInvoice() *entity.InvoiceJob {
	return &entity.InvoiceJob{
		InvoiceNumber: 500,
		JobID:         "9",
		Location:      "Zurich",
		IssuedAt:      time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		DaysToPay:     "30",
		Sender: entity.NewSender(
			"K123", "Firma", "Muster AG", "Musterstrasse 1",
			"8000 Zurich", "CHE-123.456.789", "muster@example.com",
		),
		Receiver: entity.NewReceiver("77", "Hans Beispiel", "Beispielweg 2", "3000 Bern"),
		Items: []entity.Item{
			{
				Index:       1,
				Description: "Service",
				Count:       2,
				UnitPrice:   decimal.RequireFromString("50.00"),
				TotalPrice:  decimal.RequireFromString("100.00"),
				VATRate:     decimal.RequireFromString("7.7"),
			},
		},
	}
}

func TestSnapshotStore_IdaYVuelta(t *testing.T) {
	store := storage.NewSnapshotStore(t.TempDir())
	inv := buildSnapshotInvoice()

	require.NoError(t, store.Save(inv))
	assert.FileExists(t, store.Path(500))

	loaded, err := store.Load(500)
	require.NoError(t, err)

	assert.Equal(t, inv.InvoiceNumber, loaded.InvoiceNumber)
	assert.Equal(t, inv.DaysToPay, loaded.DaysToPay)
	assert.Equal(t, inv.Sender.Email, loaded.Sender.Email)
	assert.True(t, inv.IssuedAt.Equal(loaded.IssuedAt))
	require.Len(t, loaded.Items, 1)
	assert.True(t, inv.Items[0].VATRate.Equal(loaded.Items[0].VATRate))
	assert.True(t, loaded.Validate(), "la factura recargada debe seguir siendo válida")
}

func TestSnapshotStore_Inexistente(t *testing.T) {
	store := storage.NewSnapshotStore(t.TempDir())

	_, err := store.Load(999)
	assert.Error(t, err)
}

// TestSnapshotStore_VersionDesconocida verifica que un registro persistido
// con otra versión del formato se rechaza en lugar de interpretarse mal.
func TestSnapshotStore_VersionDesconocida(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewSnapshotStore(dir)
	path := filepath.Join(dir, "500.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":2,"invoice":{}}`), 0o644))

	_, err := store.Load(500)
	assert.ErrorContains(t, err, "versión")
}

func TestSnapshotStore_SinFactura(t *testing.T) {
	dir := t.TempDir()
	store := storage.NewSnapshotStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "500.json"), []byte(`{"version":1}`), 0o644))

	_, err := store.Load(500)
	assert.Error(t, err)
}
