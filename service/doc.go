// Package service provides decorators for core.Service implementations. The
// concrete backends live in the subpackages: service/openai adapts the hosted
// Assistants API and service/local emulates the service in process.
//
// Breaker adds circuit breaker protection in front of any backend:
//
//	svc := service.NewBreaker(openai.NewService(), func(o *service.Options) {
//		o.MaxFailures = 3
//	})
//
//	r := runner.New(svc, registry)
package service
