package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/ticketline/internal/config"
	"github.com/smallbiznis/ticketline/internal/migration"
	"github.com/smallbiznis/ticketline/internal/observability"
	"github.com/smallbiznis/ticketline/internal/reservation"
	reservationdomain "github.com/smallbiznis/ticketline/internal/reservation/domain"
	"github.com/smallbiznis/ticketline/internal/summary"
	"github.com/smallbiznis/ticketline/pkg/db"
	"github.com/smallbiznis/ticketline/pkg/log"
)

func main() {
	reservationID := flag.String("reservation", "", "reservation id to price")
	locale := flag.String("locale", "en", "locale for summary texts")
	flag.Parse()

	app := fx.New(
		// Core Infrastructure
		config.Module,
		log.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional Domains
		summary.Module,
		reservation.Module,

		fx.Invoke(func(lc fx.Lifecycle, svc reservationdomain.Service, logger *zap.Logger, shutdowner fx.Shutdowner) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						defer shutdowner.Shutdown() //nolint:errcheck

						if *reservationID == "" {
							logger.Error("missing -reservation flag")
							return
						}
						priceReservation(logger, svc, *reservationID, *locale)
					}()
					return nil
				},
			})
		}),
	)
	app.Run()
}

func priceReservation(logger *zap.Logger, svc reservationdomain.Service, reservationID, locale string) {
	ctx := context.Background()

	total, discount, err := svc.TotalCost(ctx, reservationID)
	if err != nil {
		logger.Error("price reservation", zap.String("reservation_id", reservationID), zap.Error(err))
		return
	}
	summary, err := svc.OrderSummary(ctx, reservationID, locale)
	if err != nil {
		logger.Error("build summary", zap.String("reservation_id", reservationID), zap.Error(err))
		return
	}

	out := struct {
		Total    any `json:"total"`
		Discount any `json:"discount,omitempty"`
		Summary  any `json:"summary"`
	}{Total: total, Discount: discount, Summary: summary}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Error("encode output", zap.Error(err))
	}
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
