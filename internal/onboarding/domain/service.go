package domain

import (
	"context"
	"errors"
)

type UpsertOnboardingRequest struct {
	RamoAtuacao       []string `json:"ramoAtuacao"`
	QtdFuncionarios   string   `json:"qtdFuncionarios"`
	FaturamentoMensal string   `json:"faturamentoMensal"`
	Prioridade        string   `json:"prioridade"`
	ComoConheceu      string   `json:"comoConheceu"`
}

type Status struct {
	Completed bool               `json:"completed"`
	Data      *CompanyOnboarding `json:"data"`
}

type Service interface {
	Get(context.Context) (Status, error)
	Upsert(context.Context, UpsertOnboardingRequest) (Status, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidRamoAtuacao  = errors.New("invalid_ramo_atuacao")
)
