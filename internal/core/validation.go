package core

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ptBRTranslations "github.com/go-playground/validator/v10/translations/pt_BR"

	"github.com/sevengen/site-backend/internal/models"
)

// QuoteRules are the configurable parts of quote request validation.
type QuoteRules struct {
	NameMinLength    int
	MessageRequired  bool
	MessageMinLength int
}

// DefaultQuoteRules is the stricter form: name of at least 2 and a required message of at least 10.
var DefaultQuoteRules = QuoteRules{NameMinLength: 2, MessageRequired: true, MessageMinLength: 10}

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// quoteForm is the validated shape of a quote request after caller defaults are applied.
type quoteForm struct {
	Name    string `json:"name" validate:"max=120"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Phone   string `json:"phone" validate:"omitempty,max=40"`
	Company string `json:"company" validate:"max=120"`
	Service string `json:"service" validate:"max=120"`
	Message string `json:"message" validate:"max=5000"`
	Status  string `json:"status" validate:"omitempty,quote_status"`

	authenticated  bool
	identityEdited bool
	requireStatus  bool
	skipMessage    bool
}

// identityKnown reports whether name and contact may be left blank: the submitter was signed in
// and the edit being checked does not touch those fields.
func (f quoteForm) identityKnown() bool {
	return f.authenticated && !f.identityEdited
}

type signUpForm struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type serviceForm struct {
	Icon        string `json:"icon" validate:"required,service_icon"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=active coming_soon"`
}

// Validator checks incoming payloads and reports failures in pt-BR.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
	rules    QuoteRules
}

// customMessages override the stock pt-BR translations with the site's wording.
var customMessages = map[string]string{
	"email":           "Por favor, insira um e-mail válido.",
	"contact_channel": "Informe um e-mail ou telefone para contato.",
	"name_required":   "O nome não pode estar vazio.",
	"name_min":        "O nome deve ter pelo menos {0} caracteres.",
	"message_min":     "A mensagem deve ter pelo menos {0} caracteres.",
	"password_min":    "A senha deve ter pelo menos {0} caracteres.",
	"quote_status":    "Status inválido.",
	"service_icon":    "Ícone inválido.",
	"image_url":       "Por favor, insira uma URL de imagem válida.",
	"logo_url":        "Por favor, insira uma URL válida.",
}

// contentRequiredMessages are reported when a content text field is present but blank.
var contentRequiredMessages = map[string]string{
	"heroTitle":    "O título principal é obrigatório.",
	"heroSubtitle": "O subtítulo é obrigatório.",
	"aboutTitle":   `O título da seção "Sobre" é obrigatório.`,
	"aboutText":    `O texto da seção "Sobre" é obrigatório.`,
}

// serviceFieldMessages replace the stock messages for incomplete service items.
var serviceFieldMessages = map[string]string{
	"title":       "O título do serviço é obrigatório.",
	"description": "A descrição do serviço é obrigatória.",
}

// NewValidator builds a Validator for the given quote rules.
func NewValidator(rules QuoteRules) (*Validator, error) {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("quote_status", func(fl validator.FieldLevel) bool {
		return models.QuoteStatus(fl.Field().String()).Valid()
	}); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("service_icon", func(fl validator.FieldLevel) bool {
		for _, icon := range models.IconNames {
			if string(icon) == fl.Field().String() {
				return true
			}
		}
		return false
	}); err != nil {
		return nil, err
	}

	val := &Validator{validate: v, rules: rules}
	v.RegisterStructValidation(val.quoteStructLevel, quoteForm{})

	locale := pt_BR.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("pt_BR")
	if err := ptBRTranslations.RegisterDefaultTranslations(v, trans); err != nil {
		return nil, fmt.Errorf("failed to register pt_BR translations: %w", err)
	}
	for tag, text := range customMessages {
		err := v.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error { return ut.Add(tag, text, true) },
			func(ut ut.Translator, fe validator.FieldError) string {
				msg, err := ut.T(fe.Tag(), fe.Param())
				if err != nil {
					return fe.Error()
				}
				return msg
			})
		if err != nil {
			return nil, fmt.Errorf("failed to register translation %q: %w", tag, err)
		}
	}
	val.trans = trans
	return val, nil
}

// Rules returns the quote rules in force.
func (v *Validator) Rules() QuoteRules { return v.rules }

func (v *Validator) quoteStructLevel(sl validator.StructLevel) {
	form := sl.Current().Interface().(quoteForm)

	name := strings.TrimSpace(form.Name)
	switch {
	case name == "" && !form.identityKnown():
		sl.ReportError(form.Name, "name", "Name", "name_required", "")
	case name != "" && utf8.RuneCountInString(name) < v.rules.NameMinLength:
		sl.ReportError(form.Name, "name", "Name", "name_min", fmt.Sprint(v.rules.NameMinLength))
	}

	if !form.identityKnown() && strings.TrimSpace(form.Email) == "" && strings.TrimSpace(form.Phone) == "" {
		sl.ReportError(form.Email, "email", "Email", "contact_channel", "")
	}

	if form.requireStatus && form.Status == "" {
		sl.ReportError(form.Status, "status", "Status", "quote_status", "")
	}

	message := strings.TrimSpace(form.Message)
	if !form.skipMessage && v.rules.MessageRequired && utf8.RuneCountInString(message) < v.rules.MessageMinLength {
		sl.ReportError(form.Message, "message", "Message", "message_min", fmt.Sprint(v.rules.MessageMinLength))
	}
}

// ValidateQuote checks a quote request. authenticated relaxes the name and contact requirements,
// since the caller's identity is already known.
func (v *Validator) ValidateQuote(q *models.QuoteRequest, authenticated bool) error {
	return v.translate(v.validate.Struct(quoteForm{
		Name:          q.Name,
		Email:         q.Email,
		Phone:         q.Phone,
		Company:       q.Company,
		Service:       q.Service,
		Message:       q.Message,
		Status:        string(q.Status),
		authenticated: authenticated,
	}))
}

// ValidateQuoteUpdate checks a quote request after an admin edit has been applied. The message
// is not editable and is not checked again. Status must be a known value. When identityEdited is
// set the edit touched name, e-mail or phone, and the record must keep a name and a contact
// channel even if it came from a signed-in customer.
func (v *Validator) ValidateQuoteUpdate(q *models.QuoteRequest, identityEdited bool) error {
	return v.translate(v.validate.Struct(quoteForm{
		Name:           q.Name,
		Email:          q.Email,
		Phone:          q.Phone,
		Company:        q.Company,
		Service:        q.Service,
		Status:         string(q.Status),
		authenticated:  q.IsRegisteredUser,
		identityEdited: identityEdited,
		requireStatus:  true,
		skipMessage:    true,
	}))
}

// ValidateSignUp checks a customer registration.
func (v *Validator) ValidateSignUp(req models.SignUpRequest) error {
	err := v.validate.Struct(signUpForm{Name: strings.TrimSpace(req.Name), Email: req.Email, Password: req.Password})
	if err == nil {
		return nil
	}
	verr, ok := v.translate(err).(*ValidationError)
	if !ok {
		return err
	}
	for i, f := range verr.Fields {
		if f.Field == "password" && utf8.RuneCountInString(req.Password) < MinPasswordLength {
			msg, _ := v.trans.T("password_min", fmt.Sprint(MinPasswordLength))
			verr.Fields[i].Message = msg
		}
	}
	return verr
}

// ValidateContent checks the fields present in a content write: image URLs must be absolute
// http(s) URLs, the logo URL may also be empty, text fields must not be blank and every service
// must be complete.
func (v *Validator) ValidateContent(req models.WriteContentRequest) error {
	var fields []FieldError
	add := func(field, tag, param string) {
		msg, err := v.trans.T(tag, param)
		if err != nil {
			msg = tag
		}
		fields = append(fields, FieldError{Field: field, Message: msg})
	}

	if req.LogoURL != nil && *req.LogoURL != "" && !isHTTPURL(*req.LogoURL) {
		add("logoUrl", "logo_url", "")
	}
	for field, value := range map[string]*string{"heroImageUrl": req.HeroImageURL, "aboutImageUrl": req.AboutImageURL} {
		if value != nil && !isHTTPURL(*value) {
			add(field, "image_url", "")
		}
	}
	for field, value := range map[string]*string{
		"heroTitle":    req.HeroTitle,
		"heroSubtitle": req.HeroSubtitle,
		"aboutTitle":   req.AboutTitle,
		"aboutText":    req.AboutText,
	} {
		if value != nil && strings.TrimSpace(*value) == "" {
			fields = append(fields, FieldError{Field: field, Message: contentRequiredMessages[field]})
		}
	}

	if req.Services != nil {
		for i, s := range *req.Services {
			err := v.validate.Struct(serviceForm{
				Icon:        string(s.Icon),
				Title:       strings.TrimSpace(s.Title),
				Description: strings.TrimSpace(s.Description),
				Status:      string(s.Status),
			})
			if err == nil {
				continue
			}
			if verr, ok := v.translate(err).(*ValidationError); ok {
				for _, f := range verr.Fields {
					if msg, ok := serviceFieldMessages[f.Field]; ok {
						f.Message = msg
					}
					fields = append(fields, FieldError{Field: fmt.Sprintf("services[%d].%s", i, f.Field), Message: f.Message})
				}
			}
		}
	}

	if len(fields) > 0 {
		sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (v *Validator) translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: fe.Translate(v.trans)})
	}
	return &ValidationError{Fields: fields}
}

func isHTTPURL(raw string) bool {
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
