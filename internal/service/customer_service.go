package service

import (
	"context"
	"strings"

	"ledgerlite/internal/dto"
	"ledgerlite/internal/entity"
	"ledgerlite/internal/repository"

	"github.com/google/uuid"
)

type CustomerService struct {
	customers repository.CustomerRepository
}

func NewCustomerService(customers repository.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

func (s *CustomerService) Create(ctx context.Context, ownerID uuid.UUID, input dto.CustomerRequest) (*entity.Customer, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	customer := &entity.Customer{
		OwnerID: ownerID,
		Name:    strings.TrimSpace(input.Name),
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Get(ctx context.Context, ownerID, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customers.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, ErrNotFound
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]entity.Customer, error) {
	return s.customers.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *CustomerService) Update(ctx context.Context, ownerID, id uuid.UUID, input dto.CustomerRequest) (*entity.Customer, error) {
	customer, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrInvalidInput
	}
	customer.Name = strings.TrimSpace(input.Name)
	customer.Email = input.Email
	customer.Phone = input.Phone
	customer.Address = input.Address
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	return s.customers.Delete(ctx, ownerID, id)
}
