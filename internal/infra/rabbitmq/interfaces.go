package rabbitmq

import "github.com/AhmedAmineBejaoui/E-commerce/internal/infra"

var _ infra.EventPublisher = (*Publisher)(nil)
