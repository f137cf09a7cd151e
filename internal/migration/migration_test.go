package migration

import (
	"io/fs"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	additionalservicedomain "github.com/smallbiznis/ticketline/internal/additionalservice/domain"
	discountdomain "github.com/smallbiznis/ticketline/internal/discount/domain"
	eventdomain "github.com/smallbiznis/ticketline/internal/event/domain"
	reservationdomain "github.com/smallbiznis/ticketline/internal/reservation/domain"
	subscriptiondomain "github.com/smallbiznis/ticketline/internal/subscription/domain"
	ticketdomain "github.com/smallbiznis/ticketline/internal/ticket/domain"
)

// The init script must name every column the gorm models map to, or the
// postgres path diverges from what AutoMigrate-backed tests exercise.
func TestInitMigrationCoversModelColumns(t *testing.T) {
	raw, err := fs.ReadFile(embeddedMigrations, "sql/000001_init.up.sql")
	require.NoError(t, err)
	script := string(raw)

	models := []any{
		&eventdomain.Event{},
		&eventdomain.TicketCategory{},
		&subscriptiondomain.SubscriptionDescriptor{},
		&subscriptiondomain.Subscription{},
		&discountdomain.PromoCodeDiscount{},
		&reservationdomain.Reservation{},
		&ticketdomain.Ticket{},
		&additionalservicedomain.AdditionalService{},
		&additionalservicedomain.AdditionalServiceItem{},
		&additionalservicedomain.AdditionalServiceText{},
	}

	cache := &sync.Map{}
	for _, model := range models {
		parsed, err := schema.Parse(model, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		assert.Contains(t, script, "CREATE TABLE IF NOT EXISTS "+parsed.Table)
		for _, field := range parsed.Fields {
			if field.DBName == "" {
				continue
			}
			assert.True(t, strings.Contains(script, field.DBName),
				"table %s is missing column %s", parsed.Table, field.DBName)
		}
	}
}
