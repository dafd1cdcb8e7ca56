package provisioning

// Resource identifies a resource by kind and idempotency key.
type Resource struct {
	Kind string
	Name string
}

// Ensure runs a create-style operation for res. When create fails with an
// error isConflict recognises, the conflict is logged as an existing resource
// and Ensure returns nil. Any other error is returned unchanged.
func Ensure(obs Observer, phase string, res Resource, isConflict ConflictFunc, create func() error) error {
	LogResourceCreating(obs, phase, res.Kind, res.Name)

	err := create()
	switch {
	case err == nil:
		LogResourceCreated(obs, phase, res.Kind, res.Name, "")
		return nil
	case isConflict != nil && isConflict(err):
		LogResourceExists(obs, phase, res.Kind, res.Name, "")
		return nil
	default:
		LogResourceFailed(obs, phase, res.Kind, res.Name, err)
		return err
	}
}
