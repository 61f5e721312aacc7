package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/washdesk/internal/client/domain"
	"github.com/smallbiznis/washdesk/internal/clock"
	"github.com/smallbiznis/washdesk/internal/config"
	"github.com/smallbiznis/washdesk/internal/orgcontext"
	"github.com/smallbiznis/washdesk/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const listVehiclesPerClient = 2

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Business *config.BusinessConfigHolder `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	business *config.BusinessConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("client.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		business: p.Business,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListClientRequest) (pagination.Page[domain.ClientListItem], error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return pagination.Page[domain.ClientListItem]{}, domain.ErrInvalidOrganization
	}

	cfg := s.business.Get().Pagination
	page := req.Params.Normalize(cfg.DefaultPerPage, cfg.MaxPerPage)

	clients, total, err := s.repo.List(ctx, s.db, companyID, req.Search, page)
	if err != nil {
		return pagination.Page[domain.ClientListItem]{}, err
	}

	ids := make([]snowflake.ID, 0, len(clients))
	for _, c := range clients {
		ids = append(ids, c.ID)
	}
	vehicles, err := s.repo.ListVehicles(ctx, s.db, companyID, ids)
	if err != nil {
		return pagination.Page[domain.ClientListItem]{}, err
	}
	byClient := make(map[snowflake.ID][]domain.VehicleSummary, len(clients))
	for _, v := range vehicles {
		if len(byClient[v.ClientID]) >= listVehiclesPerClient {
			continue
		}
		byClient[v.ClientID] = append(byClient[v.ClientID], domain.VehicleSummary{
			ID:    v.ID,
			Plate: v.Plate,
			Brand: v.Brand,
			Model: v.Model,
			Color: v.Color,
		})
	}

	items := make([]domain.ClientListItem, 0, len(clients))
	for _, c := range clients {
		summaries := byClient[c.ID]
		if summaries == nil {
			summaries = []domain.VehicleSummary{}
		}
		tags := []string(c.Tags)
		if tags == nil {
			tags = []string{}
		}
		items = append(items, domain.ClientListItem{
			ID:        c.ID,
			Name:      c.Name,
			Whatsapp:  c.Whatsapp,
			Phone:     c.Phone,
			Email:     c.Email,
			Tags:      tags,
			CreatedAt: c.CreatedAt,
			Vehicles:  summaries,
		})
	}
	return pagination.NewPage(items, page, total), nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Client, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Client{}, domain.ErrInvalidOrganization
	}
	clientID, err := parseID(id)
	if err != nil {
		return domain.Client{}, err
	}

	client, err := s.load(ctx, companyID, clientID)
	if err != nil {
		return domain.Client{}, err
	}
	vehicles, err := s.repo.ListVehicles(ctx, s.db, companyID, []snowflake.ID{clientID})
	if err != nil {
		return domain.Client{}, err
	}
	client.Vehicles = vehicles
	if client.Vehicles == nil {
		client.Vehicles = []domain.Vehicle{}
	}
	return client, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateClientRequest) (domain.Client, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Client{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.NomeCompleto)
	if name == "" {
		return domain.Client{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if !validEmail(email) {
		return domain.Client{}, domain.ErrInvalidEmail
	}

	now := s.clock.Now().UTC()
	client := domain.Client{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		Name:      name,
		Whatsapp:  strings.TrimSpace(req.Whatsapp),
		Phone:     strings.TrimSpace(req.Telefone),
		Email:     email,
		CpfCnpj:   strings.TrimSpace(req.CpfCnpj),
		Street:    strings.TrimSpace(req.Rua),
		Number:    strings.TrimSpace(req.Numero),
		District:  strings.TrimSpace(req.Bairro),
		City:      strings.TrimSpace(req.Cidade),
		State:     strings.TrimSpace(req.UF),
		Zip:       strings.TrimSpace(req.Cep),
		Notes:     strings.TrimSpace(req.Observacoes),
		Tags:      datatypes.NewJSONSlice(cleanTags(req.Tags)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Insert(ctx, s.db, &client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateClientRequest) (domain.Client, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Client{}, domain.ErrInvalidOrganization
	}
	clientID, err := parseID(id)
	if err != nil {
		return domain.Client{}, err
	}
	client, err := s.load(ctx, companyID, clientID)
	if err != nil {
		return domain.Client{}, err
	}

	if req.NomeCompleto != nil {
		name := strings.TrimSpace(*req.NomeCompleto)
		if name == "" {
			return domain.Client{}, domain.ErrInvalidName
		}
		client.Name = name
	}
	if req.Email != nil {
		if !validEmail(strings.TrimSpace(*req.Email)) {
			return domain.Client{}, domain.ErrInvalidEmail
		}
	}
	assign(&client.Whatsapp, req.Whatsapp)
	assign(&client.Phone, req.Telefone)
	assign(&client.Email, req.Email)
	assign(&client.CpfCnpj, req.CpfCnpj)
	assign(&client.Street, req.Rua)
	assign(&client.Number, req.Numero)
	assign(&client.District, req.Bairro)
	assign(&client.City, req.Cidade)
	assign(&client.State, req.UF)
	assign(&client.Zip, req.Cep)
	assign(&client.Notes, req.Observacoes)
	if req.Tags != nil {
		client.Tags = datatypes.NewJSONSlice(cleanTags(req.Tags))
	}

	client.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.Update(ctx, s.db, &client); err != nil {
		return domain.Client{}, err
	}
	return client, nil
}

func (s *Service) ListVehicles(ctx context.Context, clientID string) ([]domain.Vehicle, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return nil, domain.ErrInvalidOrganization
	}
	id, err := parseID(clientID)
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, companyID, id); err != nil {
		return nil, err
	}

	vehicles, err := s.repo.ListVehicles(ctx, s.db, companyID, []snowflake.ID{id})
	if err != nil {
		return nil, err
	}
	if vehicles == nil {
		vehicles = []domain.Vehicle{}
	}
	return vehicles, nil
}

func (s *Service) AddVehicle(ctx context.Context, clientID string, req domain.CreateVehicleRequest) (domain.Vehicle, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Vehicle{}, domain.ErrInvalidOrganization
	}
	id, err := parseID(clientID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if _, err := s.load(ctx, companyID, id); err != nil {
		return domain.Vehicle{}, err
	}

	vehicleType := req.Tipo
	if vehicleType == "" {
		vehicleType = domain.VehicleCar
	}
	if !vehicleType.Valid() {
		return domain.Vehicle{}, domain.ErrInvalidVehicleType
	}
	plate := strings.ToUpper(strings.TrimSpace(req.Placa))
	brand := strings.TrimSpace(req.Marca)
	model := strings.TrimSpace(req.Modelo)
	if plate == "" || brand == "" || model == "" {
		return domain.Vehicle{}, domain.ErrInvalidVehicle
	}

	now := s.clock.Now().UTC()
	vehicle := domain.Vehicle{
		ID:        s.genID.Generate(),
		CompanyID: companyID,
		ClientID:  id,
		Type:      vehicleType,
		Plate:     plate,
		Brand:     brand,
		Model:     model,
		Year:      req.Ano,
		Color:     strings.TrimSpace(req.Cor),
		Vin:       strings.TrimSpace(req.Chassi),
		Notes:     strings.TrimSpace(req.Observacoes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.InsertVehicle(ctx, s.db, &vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	return vehicle, nil
}

func (s *Service) UpdateVehicle(ctx context.Context, clientID, vehicleID string, req domain.UpdateVehicleRequest) (domain.Vehicle, error) {
	companyID, ok := orgcontext.CompanyIDFromContext(ctx)
	if !ok {
		return domain.Vehicle{}, domain.ErrInvalidOrganization
	}
	cid, err := parseID(clientID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	vid, err := parseID(vehicleID)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if _, err := s.load(ctx, companyID, cid); err != nil {
		return domain.Vehicle{}, err
	}

	vehicle, err := s.repo.FindVehicle(ctx, s.db, companyID, cid, vid)
	if err != nil {
		return domain.Vehicle{}, err
	}
	if vehicle == nil {
		return domain.Vehicle{}, domain.ErrVehicleNotFound
	}

	if req.Tipo != nil {
		if !req.Tipo.Valid() {
			return domain.Vehicle{}, domain.ErrInvalidVehicleType
		}
		vehicle.Type = *req.Tipo
	}
	if req.Placa != nil {
		plate := strings.ToUpper(strings.TrimSpace(*req.Placa))
		if plate == "" {
			return domain.Vehicle{}, domain.ErrInvalidVehicle
		}
		vehicle.Plate = plate
	}
	assign(&vehicle.Brand, req.Marca)
	assign(&vehicle.Model, req.Modelo)
	assign(&vehicle.Color, req.Cor)
	assign(&vehicle.Vin, req.Chassi)
	assign(&vehicle.Notes, req.Observacoes)
	if req.Ano != nil {
		vehicle.Year = req.Ano
	}

	vehicle.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateVehicle(ctx, s.db, vehicle); err != nil {
		return domain.Vehicle{}, err
	}
	return *vehicle, nil
}

func (s *Service) load(ctx context.Context, companyID, id snowflake.ID) (domain.Client, error) {
	client, err := s.repo.FindByID(ctx, s.db, companyID, id)
	if err != nil {
		return domain.Client{}, err
	}
	if client == nil {
		return domain.Client{}, domain.ErrNotFound
	}
	return *client, nil
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

func validEmail(email string) bool {
	if email == "" {
		return true
	}
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(raw))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
