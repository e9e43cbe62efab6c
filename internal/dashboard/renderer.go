package dashboard

import (
	"context"
	"errors"
	"fmt"

	"vinfast/dashboard/internal/model"
	"vinfast/dashboard/internal/service/gateway"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Gateway is what the renderer needs from the upstream services.
// The name lookups never fail; they return a display string instead.
type Gateway interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	FetchUserName(ctx context.Context, userID int) string
	FetchCarModelName(ctx context.Context, carID int) string
}

type Options struct {
	// Concurrency is the number of orders resolved at once. Values below 2
	// resolve strictly one request at a time.
	Concurrency int
	// GatewayURL is shown when the gateway cannot be reached.
	GatewayURL string
	Logger     zerolog.Logger
}

type Renderer struct {
	gateway Gateway
	table   TableBody
	status  StatusArea
	opts    Options
}

func NewRenderer(gw Gateway, table TableBody, status StatusArea, opts Options) *Renderer {
	return &Renderer{gateway: gw, table: table, status: status, opts: opts}
}

// Load fetches the orders, resolves user and car names and writes one row
// per order, in order. Failures end up in the status area or as
// placeholder names; Load itself never fails.
func (r *Renderer) Load(ctx context.Context) {
	r.status.SetStatus("")
	r.table.ShowMessage(loadingMessage)

	orders, err := r.gateway.ListOrders(ctx)
	if err != nil {
		r.status.SetStatus(r.describeOrdersError(err))
		return
	}

	if len(orders) == 0 {
		r.table.ShowMessage(emptyMessage)
		return
	}

	r.table.Clear()

	if r.opts.Concurrency < 2 {
		for _, order := range orders {
			r.table.AppendRow(r.resolveOrder(ctx, order))
		}
		return
	}

	rows := make([]Row, len(orders))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i, order := range orders {
		i, order := i, order
		g.Go(func() error {
			rows[i] = r.resolveOrder(gctx, order)
			return nil
		})
	}
	// resolveOrder never returns an error.
	_ = g.Wait()

	for _, row := range rows {
		r.table.AppendRow(row)
	}
}

func (r *Renderer) resolveOrder(ctx context.Context, order model.Order) Row {
	row := Row{
		OrderID:  order.ID,
		UserName: r.gateway.FetchUserName(ctx, order.UserID),
		Items:    make([]string, 0, len(order.Items)),
		Total:    FormatVND(order.TotalAmount),
		Status:   order.Status,
	}

	for _, item := range order.Items {
		carName := r.gateway.FetchCarModelName(ctx, item.CarModelID)
		row.Items = append(row.Items, fmt.Sprintf("%s (%d chiếc, %s/chiếc)", carName, item.Quantity, FormatVND(item.UnitPrice)))
	}

	return row
}

func (r *Renderer) describeOrdersError(err error) string {
	var statusErr *gateway.StatusError
	switch {
	case errors.As(err, &statusErr):
		r.opts.Logger.Warn().Int("status", statusErr.StatusCode).Msg("orders service returned an error")
		return fmt.Sprintf("Lỗi Tải Đơn Hàng (T3): Server trả về %d.", statusErr.StatusCode)
	case errors.Is(err, gateway.ErrInvalidBody):
		r.opts.Logger.Warn().Err(err).Msg("orders response could not be decoded")
		return "Lỗi Tải Đơn Hàng (T3): Dữ liệu không hợp lệ."
	default:
		r.opts.Logger.Error().Err(err).Msg("gateway unreachable")
		return fmt.Sprintf("Lỗi Kết nối Gateway: Đảm bảo Gateway đang chạy tại %s.", r.opts.GatewayURL)
	}
}
