package service

import (
	"context"
	"fmt"
	"slices"

	"storefront/internal/collection"
	"storefront/internal/model"
	"storefront/internal/storage"
	"storefront/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// addressBook implements AddressBook.
type addressBook struct {
	store    *collection.Store[model.Address]
	validate *validation.Validator
	logger   zerolog.Logger
}

// NewAddressBook loads saved addresses from adapter and repairs the default
// flag if the stored list has none or several.
func NewAddressBook(ctx context.Context, adapter storage.Adapter, validate *validation.Validator, logger zerolog.Logger) (AddressBook, error) {
	if validate == nil {
		validate = validation.New()
	}
	logger = logger.With().Str("service", "address-book").Logger()

	store, err := collection.New(ctx, adapter, collection.Policy[model.Address]{
		Key:      storage.KeyAddresses,
		Identity: model.Address.Key,
		Merge:    collection.MergeReject,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open address book: %w", err)
	}

	b := &addressBook{store: store, validate: validate, logger: logger}

	if list := store.List(); len(list) > 0 && defaultCount(list) != 1 {
		logger.Warn().Int("defaults", defaultCount(list)).Msg("repairing default address")
		if err := store.Update(ctx, func(addrs []model.Address) ([]model.Address, error) {
			return ensureDefault(addrs), nil
		}); err != nil {
			logger.Warn().Err(err).Msg("failed to persist default address repair")
		}
	}

	return b, nil
}

func defaultCount(addrs []model.Address) int {
	n := 0
	for _, a := range addrs {
		if a.IsDefault {
			n++
		}
	}
	return n
}

// ensureDefault keeps the first default and clears the rest, or promotes the
// first address when none is marked.
func ensureDefault(addrs []model.Address) []model.Address {
	found := false
	for i := range addrs {
		if addrs[i].IsDefault && !found {
			found = true
			continue
		}
		addrs[i].IsDefault = false
	}
	if !found && len(addrs) > 0 {
		addrs[0].IsDefault = true
	}
	return addrs
}

func makeDefault(addrs []model.Address, idx int) {
	for i := range addrs {
		addrs[i].IsDefault = i == idx
	}
}

func indexOfAddress(addrs []model.Address, id string) int {
	return slices.IndexFunc(addrs, func(a model.Address) bool { return a.ID == id })
}

// Add saves a new address with a generated ID. The first address, or one
// marked default, becomes the default.
func (b *addressBook) Add(ctx context.Context, address model.Address) (model.Address, error) {
	if err := b.validate.Struct(address, "Address is incomplete"); err != nil {
		return model.Address{}, err
	}

	address.ID = uuid.NewString()

	err := b.store.Update(ctx, func(addrs []model.Address) ([]model.Address, error) {
		addrs = append(addrs, address)
		if address.IsDefault || len(addrs) == 1 {
			makeDefault(addrs, len(addrs)-1)
		}
		return addrs, nil
	})
	if err != nil {
		return model.Address{}, err
	}

	saved, _ := b.store.Get(address.ID)
	b.logger.Debug().Str("address_id", saved.ID).Bool("default", saved.IsDefault).Msg("address added")

	return saved, nil
}

// Update replaces an address. The default cannot be unset here; use
// SetDefault on another address instead.
func (b *addressBook) Update(ctx context.Context, address model.Address) (model.Address, error) {
	if err := b.validate.Struct(address, "Address is incomplete"); err != nil {
		return model.Address{}, err
	}

	err := b.store.Update(ctx, func(addrs []model.Address) ([]model.Address, error) {
		idx := indexOfAddress(addrs, address.ID)
		if idx < 0 {
			return nil, model.ErrNotFound
		}

		wasDefault := addrs[idx].IsDefault
		addrs[idx] = address
		if address.IsDefault || wasDefault {
			makeDefault(addrs, idx)
		}
		return addrs, nil
	})
	if err != nil {
		return model.Address{}, err
	}

	saved, _ := b.store.Get(address.ID)
	return saved, nil
}

// Remove deletes an address, promoting the first remaining one when the
// default is removed.
func (b *addressBook) Remove(ctx context.Context, id string) error {
	return b.store.Update(ctx, func(addrs []model.Address) ([]model.Address, error) {
		idx := indexOfAddress(addrs, id)
		if idx < 0 {
			return nil, model.ErrNotFound
		}
		return ensureDefault(slices.Delete(addrs, idx, idx+1)), nil
	})
}

// SetDefault marks the address as the default and clears the others.
func (b *addressBook) SetDefault(ctx context.Context, id string) error {
	return b.store.Update(ctx, func(addrs []model.Address) ([]model.Address, error) {
		idx := indexOfAddress(addrs, id)
		if idx < 0 {
			return nil, model.ErrNotFound
		}
		makeDefault(addrs, idx)
		return addrs, nil
	})
}

// Default returns the default address.
func (b *addressBook) Default() (model.Address, bool) {
	for _, a := range b.store.List() {
		if a.IsDefault {
			return a, true
		}
	}
	return model.Address{}, false
}

// List returns all addresses in the order they were added.
func (b *addressBook) List() []model.Address {
	return b.store.List()
}
