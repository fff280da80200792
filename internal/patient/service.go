package patient

type service struct {
	registry Registry
}

func NewService(registry Registry) Service {
	return &service{registry: registry}
}

func (s *service) Create(name string) (Patient, error) {
	return s.registry.Create(name)
}

func (s *service) FindByName(name string) (Patient, error) {
	return s.registry.FindByName(name)
}

func (s *service) ListAll() ([]Patient, error) {
	return s.registry.ListAll()
}
