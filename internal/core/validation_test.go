package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevengen/site-backend/internal/models"
)

func fieldMessages(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	out := make(map[string]string, len(verr.Fields))
	for _, f := range verr.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestValidator_QuoteMessages(t *testing.T) {
	v, err := NewValidator(DefaultQuoteRules)
	require.NoError(t, err)

	msgs := fieldMessages(t, v.ValidateQuote(&models.QuoteRequest{
		Name:    "A",
		Email:   "ana-at-x",
		Message: "curta",
	}, false))

	assert.Equal(t, "O nome deve ter pelo menos 2 caracteres.", msgs["name"])
	assert.Equal(t, "Por favor, insira um e-mail válido.", msgs["email"])
	assert.Equal(t, "A mensagem deve ter pelo menos 10 caracteres.", msgs["message"])
}

func TestValidator_QuoteAuthenticatedRelaxesIdentity(t *testing.T) {
	v, err := NewValidator(DefaultQuoteRules)
	require.NoError(t, err)

	assert.NoError(t, v.ValidateQuote(&models.QuoteRequest{Message: "Mensagem suficiente."}, true))

	msgs := fieldMessages(t, v.ValidateQuote(&models.QuoteRequest{Message: "Mensagem suficiente."}, false))
	assert.Equal(t, "O nome não pode estar vazio.", msgs["name"])
	assert.Contains(t, msgs, "email")
}

func TestValidator_QuoteUpdate(t *testing.T) {
	v, err := NewValidator(DefaultQuoteRules)
	require.NoError(t, err)

	registered := &models.QuoteRequest{Status: models.QuoteStatusContacted, IsRegisteredUser: true}
	assert.NoError(t, v.ValidateQuoteUpdate(registered, false))

	msgs := fieldMessages(t, v.ValidateQuoteUpdate(registered, true))
	assert.Equal(t, "O nome não pode estar vazio.", msgs["name"])
	assert.Equal(t, "Informe um e-mail ou telefone para contato.", msgs["email"])

	msgs = fieldMessages(t, v.ValidateQuoteUpdate(&models.QuoteRequest{Name: "Ana", Phone: "123"}, false))
	assert.Equal(t, "Status inválido.", msgs["status"])

	msgs = fieldMessages(t, v.ValidateQuoteUpdate(&models.QuoteRequest{Name: "Ana", Phone: "123", Status: "archived"}, false))
	assert.Equal(t, "Status inválido.", msgs["status"])
}

func TestValidator_MessageRuleIsConfigurable(t *testing.T) {
	v, err := NewValidator(QuoteRules{NameMinLength: 1, MessageRequired: false})
	require.NoError(t, err)

	assert.NoError(t, v.ValidateQuote(&models.QuoteRequest{Name: "A", Phone: "123"}, false))

	strict, err := NewValidator(QuoteRules{NameMinLength: 2, MessageRequired: true, MessageMinLength: 20})
	require.NoError(t, err)
	msgs := fieldMessages(t, strict.ValidateQuote(&models.QuoteRequest{Name: "Ana", Phone: "123", Message: "quinze letras!!"}, false))
	assert.Equal(t, "A mensagem deve ter pelo menos 20 caracteres.", msgs["message"])
}

func TestValidator_SignUp(t *testing.T) {
	v, err := NewValidator(DefaultQuoteRules)
	require.NoError(t, err)

	assert.NoError(t, v.ValidateSignUp(models.SignUpRequest{Name: "Ana", Email: "ana@x.com", Password: "123456"}))

	msgs := fieldMessages(t, v.ValidateSignUp(models.SignUpRequest{Name: " ", Email: "ana", Password: "12345"}))
	assert.Equal(t, "A senha deve ter pelo menos 6 caracteres.", msgs["password"])
	assert.Equal(t, "Por favor, insira um e-mail válido.", msgs["email"])
	assert.Contains(t, msgs, "name")
}

func TestValidator_Content(t *testing.T) {
	v, err := NewValidator(DefaultQuoteRules)
	require.NoError(t, err)

	assert.NoError(t, v.ValidateContent(models.WriteContentRequest{
		LogoURL:      strPtr(""),
		HeroTitle:    strPtr("Título"),
		HeroImageURL: strPtr("https://example.com/hero.jpg"),
	}))

	services := []models.ServiceItem{
		{Icon: models.IconZap, Title: "Elétrica", Description: "Instalação", Status: models.ServiceStatusActive},
		{Icon: "Rocket", Title: "", Description: "x", Status: "paused"},
	}
	msgs := fieldMessages(t, v.ValidateContent(models.WriteContentRequest{
		LogoURL:       strPtr("logo.png"),
		HeroTitle:     strPtr("  "),
		AboutImageURL: strPtr("ftp://example.com/a.jpg"),
		Services:      &services,
	}))

	assert.Equal(t, "Por favor, insira uma URL válida.", msgs["logoUrl"])
	assert.Equal(t, "O título principal é obrigatório.", msgs["heroTitle"])
	assert.Equal(t, "Por favor, insira uma URL de imagem válida.", msgs["aboutImageUrl"])
	assert.Equal(t, "Ícone inválido.", msgs["services[1].icon"])
	assert.Equal(t, "O título do serviço é obrigatório.", msgs["services[1].title"])
	assert.Contains(t, msgs, "services[1].status")
	assert.NotContains(t, msgs, "services[0].icon")
}
