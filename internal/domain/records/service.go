package records

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"health-records/internal/platform/logger"
)

const notifyTimeout = 5 * time.Second

type Service struct {
	store    Store
	notifier Notifier
	policy   ReadPolicy
	log      logger.Logger
	validate *validator.Validate
}

type Options struct {
	// Opcional: si viene, se avisa cada registro guardado.
	Notifier Notifier
	Logger   logger.Logger
	// Default: ReadPolicyRecover.
	Policy ReadPolicy
}

func NewService(store Store, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	policy := opts.Policy
	if policy == "" {
		policy = ReadPolicyRecover
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	// Reportar errores con el nombre JSON del campo ("name", no "Name").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Service{
		store:    store,
		notifier: opts.Notifier,
		policy:   policy,
		log:      log.With(logger.Fields{"component": "records"}),
		validate: v,
	}
}

// SubmitInput es un registro ya decodificado (tipos coercionados), aún sin validar.
type SubmitInput struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`

	Age    *int     `json:"age"`
	Weight *float64 `json:"weight"`
	Height *float64 `json:"height"`

	BloodPressure *string `json:"blood_pressure"`
	Notes         *string `json:"notes"`
}

func (in SubmitInput) record() Record {
	return Record{
		Name:          in.Name,
		Email:         in.Email,
		Age:           in.Age,
		Weight:        in.Weight,
		Height:        in.Height,
		BloodPressure: in.BloodPressure,
		Notes:         in.Notes,
	}
}

// Submit valida y agrega el registro al store.
// Errores de validación salen como *ValidationError (errors.Is ErrInvalidInput).
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Record, error) {
	if err := s.validateInput(in); err != nil {
		return Record{}, err
	}

	r := in.record()
	if err := s.store.Append(ctx, r); err != nil {
		s.log.Error("append record failed", logger.Fields{"err": err})
		return Record{}, fmt.Errorf("append record: %w", err)
	}

	s.notify(ctx, r)
	return r, nil
}

// List devuelve todos los registros. Con ReadPolicyRecover nunca falla.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	items, err := s.store.LoadAll(ctx)
	if err != nil {
		return s.readFailed("list", err)
	}
	if items == nil {
		items = []Record{}
	}
	return items, nil
}

// Search devuelve los registros que matchean q. Con ReadPolicyRecover nunca falla.
func (s *Service) Search(ctx context.Context, q Query) ([]Record, error) {
	items, err := s.store.Filter(ctx, q)
	if err != nil {
		return s.readFailed("search", err)
	}
	if items == nil {
		items = []Record{}
	}
	return items, nil
}

func (s *Service) validateInput(in SubmitInput) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out.add(fe.Field(), "field required")
		default:
			out.add(fe.Field(), "failed "+fe.Tag())
		}
	}
	return out.orNil()
}

// readFailed aplica la política de lectura a errores de cualquier backend.
func (s *Service) readFailed(op string, err error) ([]Record, error) {
	if s.policy == ReadPolicyStrict {
		if errors.Is(err, ErrStorageUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w: %v", op, ErrStorageUnavailable, err)
	}

	s.log.Warn("record store read failed, serving empty collection", logger.Fields{
		"op":  op,
		"err": err,
	})
	return []Record{}, nil
}

// notify no propaga errores: el registro ya quedó guardado.
func (s *Service) notify(ctx context.Context, r Record) {
	if s.notifier == nil {
		return
	}

	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if err := s.notifier.RecordSubmitted(nctx, r); err != nil {
		s.log.Warn("record submitted notification failed", logger.Fields{"err": err})
	}
}
