package settings

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_UpdateAndExport(t *testing.T) {
	svc := NewService()

	svc.Update(BusinessSettings{
		BusinessName:   "Acme Ltd",
		BusinessEmail:  "billing@acme.test",
		CurrencySymbol: "$",
		TaxRate:        10,
	})

	data, err := svc.Export()
	require.NoError(t, err)

	var decoded BusinessSettings
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "Acme Ltd", decoded.BusinessName)
	assert.Equal(t, 10.0, decoded.TaxRate)
}

func TestService_ExportEmpty(t *testing.T) {
	svc := NewService()

	data, err := svc.Export()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "", decoded["business_name"])
}

func TestService_ConcurrentAccess(t *testing.T) {
	svc := NewService()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			svc.Update(BusinessSettings{BusinessName: "x"})
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Export()
		}()
	}
	wg.Wait()

	assert.Equal(t, "x", svc.Current().BusinessName)
}
