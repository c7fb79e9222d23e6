// Command gymctl keeps a signed-in user on this machine and prints the
// screens available to them.
//
//	gymctl login -email carlos@centralfight.com -password 123456 -role trainer
//	gymctl whoami
//	gymctl dashboard
//	gymctl profile -phone "(11) 91234-5678"
//	gymctl events -filter upcoming -register event1
//	gymctl logout
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"centralfight/gym-app/internal/analytics"
	"centralfight/gym-app/internal/app"
	"centralfight/gym-app/internal/config"
	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/service"
	"centralfight/gym-app/internal/session"

	"github.com/google/uuid"
)

var errNotSignedIn = errors.New("not signed in: run gymctl login first")

func usage() {
	fmt.Fprintf(os.Stderr, `usage: gymctl <command> [flags]

commands:
  login -email E -password P -role trainer|student
  logout
  whoami
  profile [-name N] [-email E] [-phone P] [-photo URL]
  dashboard       trainer dashboard, or student home
  progress        student progress
  payments        student payments
  pay -payment ID [-method pix|credit_card|boleto]
  notifications [-read ID | -read-all | -delete ID]
  events [-filter all|upcoming|registered] [-register ID | -cancel ID]
`)
}

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	weekStart, err := analytics.ParseWeekday(cfg.Analytics.WeekStart)
	if err != nil {
		log.Fatalf("FATAL: Invalid analytics.week_start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	directory, err := app.LoadDirectory(ctx, cfg, time.Now())
	if err != nil {
		log.Fatalf("FATAL: Could not load data: %v", err)
	}
	store, closeStore, err := app.OpenSessionStore(ctx, cfg)
	if err != nil {
		log.Fatalf("FATAL: Could not open session store: %v", err)
	}
	defer closeStore()

	// The CLI never hands out tokens, so any secret will do when none is configured.
	secret := cfg.JWT.Secret
	if secret == "" {
		secret = uuid.NewString()
	}
	auth := service.NewAuthService(directory, secret, cfg.JWT.Expiration)
	gateway := session.NewGateway(auth, store, cfg.Session.Key)
	gateway.Restore(ctx)

	cli := &cli{
		auth:     auth,
		gateway:  gateway,
		trainers: service.NewTrainerService(directory, weekStart, time.Now),
		students: service.NewStudentService(directory, service.SimulatedGateway{Delay: cfg.Payment.SimulatedDelay}, weekStart, time.Now),
	}
	if err := cli.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		log.Printf("ERROR: %v", err)
		closeStore()
		os.Exit(1)
	}
}

type cli struct {
	auth     service.AuthService
	gateway  *session.Gateway
	trainers service.TrainerService
	students service.StudentService
}

func (c *cli) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "login":
		return c.login(ctx, args)
	case "logout":
		c.gateway.Logout(ctx)
		fmt.Println("Signed out.")
		return nil
	case "whoami":
		acc, ok := c.gateway.Current()
		if !ok {
			return errNotSignedIn
		}
		return printJSON(map[string]any{"type": acc.Role(), "account": acc})
	case "profile":
		return c.profile(ctx, args)
	case "dashboard":
		return c.dashboard(ctx)
	case "progress", "payments":
		return c.studentScreen(ctx, cmd)
	case "pay":
		return c.pay(ctx, args)
	case "notifications":
		return c.notifications(ctx, args)
	case "events":
		return c.events(ctx, args)
	}
	usage()
	return fmt.Errorf("unknown command %q", cmd)
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", string(domain.RoleStudent), "trainer or student")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if !c.gateway.Login(ctx, *email, *password, domain.Role(*role)) {
		return errors.New("login failed: check email, password and role")
	}
	acc, _ := c.gateway.Current()
	fmt.Printf("Signed in as %s (%s).\n", acc.Profile().Name, acc.Role())
	return nil
}

// profile edits the signed-in account and keeps the edited copy in the
// session. The directory itself is not changed.
func (c *cli) profile(ctx context.Context, args []string) error {
	acc, ok := c.gateway.Current()
	if !ok {
		return errNotSignedIn
	}
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	var p domain.Profile
	fs.StringVar(&p.Name, "name", "", "display name")
	fs.StringVar(&p.Email, "email", "", "email address")
	fs.StringVar(&p.Phone, "phone", "", "phone number")
	fs.StringVar(&p.Photo, "photo", "", "photo URL")
	if err := fs.Parse(args); err != nil {
		return err
	}

	edited, err := c.auth.UpdateProfile(ctx, acc.Profile().ID, acc.Role(), p)
	if err != nil {
		return err
	}
	if err := c.gateway.Replace(ctx, edited); err != nil {
		return err
	}
	return printJSON(map[string]any{"type": edited.Role(), "account": edited})
}

func (c *cli) dashboard(ctx context.Context) error {
	acc, ok := c.gateway.Current()
	if !ok {
		return errNotSignedIn
	}
	switch a := acc.(type) {
	case domain.Trainer:
		d, err := c.trainers.Dashboard(ctx, a.ID)
		if err != nil {
			return err
		}
		return printJSON(d)
	case domain.Student:
		h, err := c.students.Home(ctx, a.ID)
		if err != nil {
			return err
		}
		return printJSON(h)
	}
	return fmt.Errorf("unsupported account type %T", acc)
}

// student returns the signed-in student.
func (c *cli) student(cmd string) (domain.Student, error) {
	acc, ok := c.gateway.Current()
	if !ok {
		return domain.Student{}, errNotSignedIn
	}
	st, ok := acc.(domain.Student)
	if !ok {
		return domain.Student{}, fmt.Errorf("%s is only available to students", cmd)
	}
	return st, nil
}

func (c *cli) studentScreen(ctx context.Context, screen string) error {
	st, err := c.student(screen)
	if err != nil {
		return err
	}

	var out any
	switch screen {
	case "progress":
		out, err = c.students.Progress(ctx, st.ID)
	case "payments":
		out, err = c.students.Payments(ctx, st.ID)
	}
	if err != nil {
		return err
	}
	return printJSON(out)
}

func (c *cli) pay(ctx context.Context, args []string) error {
	st, err := c.student("pay")
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("pay", flag.ContinueOnError)
	paymentID := fs.String("payment", "", "pending payment id")
	method := fs.String("method", string(domain.MethodPix), "pix, credit_card or boleto")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *paymentID == "" {
		return errors.New("pay: -payment is required")
	}

	receipt, err := c.students.ProcessPayment(ctx, st.ID, *paymentID, domain.PaymentMethod(*method))
	if errors.Is(err, service.ErrPaymentDeclined) && receipt != nil {
		_ = printJSON(receipt.Payment)
	}
	if err != nil {
		return err
	}
	return printJSON(receipt)
}

func (c *cli) notifications(ctx context.Context, args []string) error {
	st, err := c.student("notifications")
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("notifications", flag.ContinueOnError)
	read := fs.String("read", "", "mark one notification as read")
	readAll := fs.Bool("read-all", false, "mark every notification as read")
	del := fs.String("delete", "", "remove one notification")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var inbox domain.Notifications
	switch {
	case *read != "":
		inbox, err = c.students.MarkNotificationRead(ctx, st.ID, *read)
	case *readAll:
		inbox, err = c.students.MarkAllNotificationsRead(ctx, st.ID)
	case *del != "":
		inbox, err = c.students.DeleteNotification(ctx, st.ID, *del)
	default:
		inbox, err = c.students.Notifications(ctx, st.ID)
	}
	if err != nil {
		return err
	}
	return printJSON(map[string]any{"notifications": inbox, "unread": inbox.UnreadCount()})
}

func (c *cli) events(ctx context.Context, args []string) error {
	st, err := c.student("events")
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	filter := fs.String("filter", string(analytics.EventsAll), "all, upcoming or registered")
	register := fs.String("register", "", "sign up for an event")
	cancelID := fs.String("cancel", "", "cancel an event registration")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *register != "":
		view, err := c.students.RegisterForEvent(ctx, st.ID, *register)
		if err != nil {
			return err
		}
		return printJSON(view)
	case *cancelID != "":
		view, err := c.students.CancelEventRegistration(ctx, st.ID, *cancelID)
		if err != nil {
			return err
		}
		return printJSON(view)
	}
	events, err := c.students.Events(ctx, st.ID, analytics.EventFilter(*filter))
	if err != nil {
		return err
	}
	return printJSON(events)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
