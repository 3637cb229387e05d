package mocks

//go:generate mockgen -destination=project.go -package=mocks -mock_names=Repository=MockProjectRepository github.com/portfolio/projects-api/internal/port/project Repository
//go:generate mockgen -destination=media.go -package=mocks -mock_names=Store=MockMediaStore github.com/portfolio/projects-api/internal/port/media Store
//go:generate mockgen -destination=eventbus.go -package=mocks -mock_names=Publisher=MockEventPublisher github.com/portfolio/projects-api/internal/port/eventbus Publisher
//go:generate mockgen -destination=git.go -package=mocks github.com/portfolio/projects-api/internal/port/git RepoReader
