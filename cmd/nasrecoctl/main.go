// nasrecoctl es el cliente de línea de comandos del personal: consume
// el API exclusivamente a través de la capa cliente (resolver de
// tenant, wrapper HTTP, querycache y mutaciones optimistas), igual que
// lo haría la UI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bscode-watanabejun/nasreco/internal/auth"
	"github.com/bscode-watanabejun/nasreco/internal/client"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
	"github.com/bscode-watanabejun/nasreco/internal/optimistic"
	"github.com/bscode-watanabejun/nasreco/internal/querycache"
	"github.com/bscode-watanabejun/nasreco/internal/records"
	"github.com/bscode-watanabejun/nasreco/internal/tenant"
)

type session struct {
	api *client.Client
	svc *records.Service
	me  *repository.Staff
}

// connect resuelve el tenant, hace login y arma los facades.
func connect(ctx context.Context, baseURL, tenantID, email, password string) (*session, error) {
	resolver := tenant.NewResolver(tenant.NewSession(), nil)
	if tenantID != "" {
		resolver.Resolve(tenant.PathPrefix + tenantID)
	}

	api := client.New(baseURL, resolver)
	raw, err := api.Request(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	me, err := client.Decode[*repository.Staff](raw)
	if err != nil {
		return nil, err
	}

	notifier := optimistic.NotifierFunc(func(key querycache.Key, err error) {
		fmt.Fprintf(os.Stderr, "⚠ cambio revertido (%s): %v\n", key.String(), err)
	})
	svc := records.New(api, querycache.New(querycache.Options{}), notifier)
	return &session{api: api, svc: svc, me: me}, nil
}

func printJSON(v any) {
	p, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(p))
}

func main() {
	logger.Init(logger.Config{Env: "prod", ServiceName: "nasrecoctl"})

	var (
		baseURL  = envOr("NASRECO_URL", "http://localhost:8080")
		tenantID = envOr("NASRECO_TENANT", "")
		email    = envOr("NASRECO_EMAIL", "")
		password = envOr("NASRECO_PASSWORD", "")
	)

	root := &cobra.Command{
		Use:   "nasrecoctl",
		Short: "CLI del personal para NASRECO",
	}
	root.PersistentFlags().StringVar(&baseURL, "url", baseURL, "URL base del servicio (env NASRECO_URL)")
	root.PersistentFlags().StringVar(&tenantID, "tenant", tenantID, "id del tenant (env NASRECO_TENANT)")
	root.PersistentFlags().StringVar(&email, "email", email, "email del staff (env NASRECO_EMAIL)")
	root.PersistentFlags().StringVar(&password, "password", password, "password del staff (env NASRECO_PASSWORD)")

	open := func(ctx context.Context) (*session, error) {
		if email == "" || password == "" {
			return nil, fmt.Errorf("faltan credenciales (--email/--password o env NASRECO_EMAIL/NASRECO_PASSWORD)")
		}
		return connect(ctx, baseURL, tenantID, email, password)
	}

	// ─── whoami ───
	root.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Muestra el staff autenticado",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			printJSON(s.me)
			return nil
		},
	})

	// ─── residents ───
	residentsCmd := &cobra.Command{Use: "residents", Short: "Residentes"}
	var resFloor string
	residentsList := &cobra.Command{
		Use:   "list",
		Short: "Lista residentes",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			items, err := s.svc.Residents().List(cmd.Context(), repository.ResidentFilter{Floor: resFloor})
			if err != nil {
				return err
			}
			printJSON(items)
			return nil
		},
	}
	residentsList.Flags().StringVar(&resFloor, "floor", "", "filtrar por planta")
	residentsCmd.AddCommand(residentsList)
	root.AddCommand(residentsCmd)

	// ─── vitals ───
	vitalsCmd := &cobra.Command{Use: "vitals", Short: "Signos vitales"}
	var vFilter filterFlags
	vitalsList := &cobra.Command{
		Use:   "list",
		Short: "Lista registros de signos vitales",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			items, err := s.svc.Vitals().List(cmd.Context(), vFilter.toFilter())
			if err != nil {
				return err
			}
			printJSON(items)
			return nil
		},
	}
	vFilter.register(vitalsList)

	var vTiming string
	var vTemp float64
	vitalsAdd := &cobra.Command{
		Use:   "add",
		Short: "Registra una toma de signos vitales",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			rec := &repository.VitalRecord{
				ResidentID: vFilter.resident,
				RecordDate: vFilter.date,
				Timing:     vTiming,
			}
			if cmd.Flags().Changed("temp") {
				rec.Temperature = &vTemp
			}
			created, err := s.svc.Vitals().Create(cmd.Context(), vFilter.toFilter(), rec)
			if err != nil {
				return err
			}
			printJSON(created)
			return nil
		},
	}
	vFilter.register(vitalsAdd)
	vitalsAdd.Flags().StringVar(&vTiming, "timing", "morning", "morning|noon|evening|night")
	vitalsAdd.Flags().Float64Var(&vTemp, "temp", 0, "temperatura corporal")
	vitalsCmd.AddCommand(vitalsList, vitalsAdd)
	root.AddCommand(vitalsCmd)

	// ─── communications ───
	commCmd := &cobra.Command{Use: "comm", Short: "Tablón de comunicaciones"}
	commList := &cobra.Command{
		Use:   "list",
		Short: "Lista comunicaciones",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			items, err := s.svc.Communications().List(cmd.Context(), repository.CommunicationFilter{})
			if err != nil {
				return err
			}
			printJSON(items)
			return nil
		},
	}
	var commTitle, commContent string
	var commImportant bool
	commPost := &cobra.Command{
		Use:   "post",
		Short: "Publica una comunicación",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			created, err := s.svc.Communications().Create(cmd.Context(), repository.CommunicationFilter{}, &repository.Communication{
				Title:     commTitle,
				Content:   commContent,
				Important: commImportant,
			})
			if err != nil {
				return err
			}
			printJSON(created)
			return nil
		},
	}
	commPost.Flags().StringVar(&commTitle, "title", "", "título")
	commPost.Flags().StringVar(&commContent, "content", "", "contenido")
	commPost.Flags().BoolVar(&commImportant, "important", false, "marcar como importante")
	var commID string
	commRead := &cobra.Command{
		Use:   "read",
		Short: "Marca una comunicación como leída",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			return s.svc.Communications().MarkRead(cmd.Context(), commID, s.me.ID)
		},
	}
	commRead.Flags().StringVar(&commID, "id", "", "id de la comunicación")
	commCmd.AddCommand(commList, commPost, commRead)
	root.AddCommand(commCmd)

	// ─── settings ───
	settingsCmd := &cobra.Command{Use: "settings", Short: "Master settings"}
	var setCategory string
	settingsList := &cobra.Command{
		Use:   "list",
		Short: "Lista settings de una categoría",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			items, err := s.svc.Settings().List(cmd.Context(), setCategory)
			if err != nil {
				return err
			}
			printJSON(items)
			return nil
		},
	}
	settingsList.Flags().StringVar(&setCategory, "category", "", "categoría (ej. meal-amount)")
	var moveFrom, moveTo int
	settingsMove := &cobra.Command{
		Use:   "move",
		Short: "Reordena un setting dentro de su categoría",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd.Context())
			if err != nil {
				return err
			}
			return s.svc.Settings().Reorder(cmd.Context(), setCategory, moveFrom, moveTo)
		},
	}
	settingsMove.Flags().StringVar(&setCategory, "category", "", "categoría")
	settingsMove.Flags().IntVar(&moveFrom, "from", 0, "posición origen")
	settingsMove.Flags().IntVar(&moveTo, "to", 0, "posición destino")
	settingsCmd.AddCommand(settingsList, settingsMove)
	root.AddCommand(settingsCmd)

	// ─── token (operador) ───
	var tokSecret, tokIssuer string
	var tokTTL time.Duration
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un token de management para administrar tenants",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokSecret == "" {
				return fmt.Errorf("--secret es requerido")
			}
			issuer := auth.NewTokenIssuer(tokIssuer, tokSecret, tokTTL)
			tok, err := issuer.Issue("operator", "", repository.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&tokSecret, "secret", os.Getenv("NASRECO_JWT_SECRET"), "secreto JWT (env NASRECO_JWT_SECRET)")
	tokenCmd.Flags().StringVar(&tokIssuer, "issuer", "nasreco", "issuer del token")
	tokenCmd.Flags().DurationVar(&tokTTL, "ttl", time.Hour, "vigencia del token")
	root.AddCommand(tokenCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// filterFlags agrupa los flags comunes de filtrado de registros diarios.
type filterFlags struct {
	date     string
	resident string
	floor    string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", time.Now().Format("2006-01-02"), "fecha YYYY-MM-DD")
	cmd.Flags().StringVar(&f.resident, "resident", "", "id del residente")
	cmd.Flags().StringVar(&f.floor, "floor", "", "planta")
}

func (f *filterFlags) toFilter() repository.RecordFilter {
	return repository.RecordFilter{Date: f.date, ResidentID: f.resident, Floor: f.floor}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
