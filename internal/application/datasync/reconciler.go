package datasync

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/jhoicas/systemair-inventario/internal/application/dto"
	"github.com/jhoicas/systemair-inventario/internal/domain"
	"github.com/jhoicas/systemair-inventario/internal/domain/repository"
)

// ImportData decodifica raw e importa el snapshot.
func (s *Service) ImportData(ctx context.Context, raw []byte) (*dto.ImportReport, error) {
	doc, err := ParseSnapshot(raw)
	if err != nil {
		return nil, err
	}
	return s.ImportSnapshot(ctx, doc)
}

// ImportSnapshot fusiona el snapshot en el almacén: usuarios, luego productos, luego entregas.
// Cada registro reemplaza al existente con el mismo id o se inserta si no existe.
// Un registro que no se puede decodificar o guardar se registra en el log y se cuenta, sin abortar el resto.
func (s *Service) ImportSnapshot(ctx context.Context, doc *Document) (*dto.ImportReport, error) {
	report := &dto.ImportReport{}

	importRecords(ctx, s, repository.CollectionUsers, doc.Users, &report.Users,
		func(u dto.UserRecord) string { return u.ID },
		s.users.UserExists,
		func(u dto.UserRecord) error { _, err := s.users.UpdateUser(ctx, u); return err },
		func(u dto.UserRecord) error { return s.users.InsertUser(ctx, u) },
	)
	importRecords(ctx, s, repository.CollectionProducts, doc.Products, &report.Products,
		func(p dto.ProductRecord) string { return p.ID },
		s.products.ProductExists,
		func(p dto.ProductRecord) error { _, err := s.products.UpdateProduct(ctx, p); return err },
		func(p dto.ProductRecord) error { return s.products.InsertProduct(ctx, p) },
	)
	importRecords(ctx, s, repository.CollectionDeliveries, doc.Deliveries, &report.Deliveries,
		func(d dto.DeliveryRecord) string { return d.ID },
		s.deliveries.DeliveryExists,
		func(d dto.DeliveryRecord) error { return s.deliveries.ReplaceDelivery(ctx, d) },
		func(d dto.DeliveryRecord) error { return s.deliveries.InsertDelivery(ctx, d) },
	)

	s.metrics.observeImport(repository.CollectionUsers, report.Users)
	s.metrics.observeImport(repository.CollectionProducts, report.Products)
	s.metrics.observeImport(repository.CollectionDeliveries, report.Deliveries)

	ev := s.log.Info()
	if report.Failed() > 0 {
		ev = s.log.Warn()
	}
	ev.Interface("report", report).Msg("snapshot importado")
	return report, ctx.Err()
}

// importRecords decodifica cada registro de raws como T y lo fusiona por id.
func importRecords[T any](
	ctx context.Context,
	s *Service,
	collection string,
	raws []json.RawMessage,
	counts *dto.CollectionReport,
	idOf func(T) string,
	exists func(context.Context, string) (bool, error),
	update, insert func(T) error,
) {
	for i, raw := range raws {
		var rec T
		err := json.Unmarshal(raw, &rec)
		if err == nil && idOf(rec) == "" {
			err = fmt.Errorf("%w: registro sin id", domain.ErrInvalidInput)
		}
		if err != nil {
			counts.Failed++
			s.log.Error().Err(err).Str("collection", collection).Int("index", i).Msg("registro mal formado")
			continue
		}
		s.merge(ctx, collection, idOf(rec), counts, exists,
			func() error { return update(rec) },
			func() error { return insert(rec) },
		)
	}
}

func (s *Service) merge(
	ctx context.Context,
	collection, id string,
	counts *dto.CollectionReport,
	exists func(context.Context, string) (bool, error),
	update, insert func() error,
) {
	if ctx.Err() != nil {
		counts.Failed++
		return
	}
	found, err := exists(ctx, id)
	if err == nil {
		if found {
			err = update()
		} else {
			err = insert()
		}
	}
	if err != nil {
		counts.Failed++
		s.log.Error().Err(err).Str("collection", collection).Str("id", id).Msg("registro no importado")
		return
	}
	if found {
		counts.Updated++
	} else {
		counts.Inserted++
	}
}
