package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(values map[string]string) *SettingsManager {
	m := &SettingsManager{cache: map[string]string{}}
	m.Preload(values)
	return m
}

func TestSettingsTypedGetters(t *testing.T) {
	m := newTestManager(map[string]string{
		"general.store_name":     "OpenMall",
		"shipping.flat_rate":     "10",
		"shipping.cart_ttl_days": "30",
		"payment.cod_enable":     "true",
		"payment.card_enable":    "nonsense",
	})

	assert.Equal(t, "OpenMall", m.GetString(SettingsGeneral, "store_name"))
	assert.Equal(t, int64(10), m.GetInt64(SettingsShipping, "flat_rate"))
	assert.True(t, m.GetBool(SettingsPayment, "cod_enable"))

	// unparseable values coerce to zero values rather than erroring
	assert.False(t, m.GetBool(SettingsPayment, "card_enable"))
	assert.Zero(t, m.GetInt64(SettingsGeneral, "store_name"))
	assert.Equal(t, "", m.GetString(SettingsGeneral, "missing"))
}

func TestSettingsGetCategory(t *testing.T) {
	m := newTestManager(map[string]string{
		"shipping.flat_rate":         "10",
		"shipping.free_shipping_min": "99",
		"general.store_name":         "OpenMall",
	})

	shipping := m.GetCategory(SettingsShipping)
	assert.Len(t, shipping, 2)
	assert.Equal(t, "10", shipping["flat_rate"])
	assert.Equal(t, "99", shipping["free_shipping_min"])
	assert.NotContains(t, shipping, "store_name")
}

func TestDecodeNotificationSettings(t *testing.T) {
	m := newTestManager(map[string]string{
		"notification.mail_enable": "true",
		"notification.smtp_host":   "smtp.example.com",
		"notification.smtp_port":   "2525",
		"notification.mail_from":   "noreply@example.com",
		"notification.webhook_url": "https://hooks.example.com/orders",
	})

	var settings NotificationSettings
	require.NoError(t, m.DecodeCategory(SettingsNotification, &settings))

	assert.True(t, settings.MailEnable)
	assert.Equal(t, "smtp.example.com", settings.SmtpHost)
	// weak typing coerces the stored string onto the int field
	assert.Equal(t, 2525, settings.SmtpPort)
	assert.Equal(t, "noreply@example.com", settings.MailFrom)
	assert.Equal(t, "https://hooks.example.com/orders", settings.WebhookURL)
	assert.Empty(t, settings.AdminEmails)
}

func TestSettingsCategoriesKnown(t *testing.T) {
	assert.ElementsMatch(t,
		[]string{SettingsGeneral, SettingsPayment, SettingsNotification, SettingsShipping},
		SettingsCategories)
}
