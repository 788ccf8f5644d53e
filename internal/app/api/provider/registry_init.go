package provider

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	apperrors "audio2pdf/internal/app/errors"
)

// ProviderCreator is a function that creates a provider from configuration
type ProviderCreator func(settings Settings) (TranscriptionProvider, error)

// providerRegistry stores provider creation functions
var (
	providerRegistry = make(map[string]ProviderCreator)
	registryMutex    sync.RWMutex
)

// RegisterProvider registers a provider creator function
func RegisterProvider(providerType string, creator ProviderCreator) {
	registryMutex.Lock()
	defer registryMutex.Unlock()
	providerRegistry[providerType] = creator
}

// GetProviderCreator returns the creator function for a provider type
func GetProviderCreator(providerType string) (ProviderCreator, error) {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	creator, ok := providerRegistry[providerType]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrProviderNotFound, "provider type %q not registered", providerType)
	}
	return creator, nil
}

// ListRegisteredProviders returns all registered provider types, sorted
func ListRegisteredProviders() []string {
	registryMutex.RLock()
	defer registryMutex.RUnlock()

	providers := lo.Keys(providerRegistry)
	sort.Strings(providers)
	return providers
}

// New creates a provider of the given type.
func New(providerType string, settings Settings) (TranscriptionProvider, error) {
	creator, err := GetProviderCreator(providerType)
	if err != nil {
		return nil, err
	}
	return creator(settings)
}
