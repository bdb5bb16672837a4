package model

import "github.com/google/uuid"

type Perfil string

const (
	PerfilUBS       Perfil = "UBS"
	PerfilAtendente Perfil = "ATENDENTE"
	PerfilRegulacao Perfil = "REGULACAO"
	PerfilSecAdm    Perfil = "SEC_ADM"
)

type Principal struct {
	UserID uuid.UUID
	Nome   string
	Perfil Perfil
}

func (p Principal) IsUBS() bool {
	return p.Perfil == PerfilUBS
}

func (p Principal) IsAtendente() bool {
	return p.Perfil == PerfilAtendente
}

func (p Principal) IsRegulacao() bool {
	return p.Perfil == PerfilRegulacao
}

func (p Principal) IsSecAdm() bool {
	return p.Perfil == PerfilSecAdm
}

// CanCreateProcesso: intake roles open cases.
func (p Principal) CanCreateProcesso() bool {
	return p.IsUBS() || p.IsAtendente() || p.IsSecAdm()
}

// CanEditProcesso: field corrections outside the state machine.
func (p Principal) CanEditProcesso() bool {
	return p.IsRegulacao() || p.IsSecAdm() || p.IsAtendente()
}

// CanRegulate: status transitions are restricted to the regulation desk.
func (p Principal) CanRegulate() bool {
	return p.IsRegulacao() || p.IsSecAdm()
}

// CanDispatch: trips, manifests, vouchers and registries.
func (p Principal) CanDispatch() bool {
	return p.IsRegulacao() || p.IsSecAdm()
}
