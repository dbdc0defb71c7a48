package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/policyops/backend/internal/application/billing"
	"github.com/policyops/backend/internal/domain/policy"
	"github.com/policyops/backend/internal/domain/shared/valueobject"
	"github.com/policyops/backend/internal/infrastructure/config"
	"github.com/policyops/backend/internal/infrastructure/logger"
	"github.com/policyops/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const dateLayout = "2006-01-02"

func main() {
	// Parse flags
	var (
		policyNumber string
		dateArg      string
		amountArg    string
		payerArg     string
		reasonArg    string
		descArg      string
		scheduleArg  string
		logLevel     string
	)

	flag.StringVar(&policyNumber, "policy", "", "Policy number (required)")
	flag.StringVar(&dateArg, "date", "", "Reference date YYYY-MM-DD (default: today)")
	flag.StringVar(&amountArg, "amount", "", "Payment amount, e.g. 400.00")
	flag.StringVar(&payerArg, "payer", "", "Paying contact ID (default: the named insured)")
	flag.StringVar(&reasonArg, "reason", "", "Explicit cancellation reason")
	flag.StringVar(&descArg, "description", "", "Cancellation description")
	flag.StringVar(&scheduleArg, "schedule", "", "New billing schedule (Annual, Two-Pay, Quarterly, Monthly)")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	if policyNumber == "" {
		log.Fatal("Policy number required. Use -policy <number>")
	}

	asOf := time.Now()
	if dateArg != "" {
		asOf, err = time.Parse(dateLayout, dateArg)
		if err != nil {
			log.Fatal("Invalid date", zap.String("value", dateArg))
		}
	}

	// Connect to the database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database,
		logger.NewGormLogger(log, gormlogger.Warn))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		_ = db.Close()
	}()

	store := persistence.NewGormStore(db.DB)
	service := billing.NewBillingService(store, log)

	ctx := context.Background()
	p, err := store.Policies().FindByNumber(ctx, policyNumber)
	if err != nil {
		log.Fatal("Failed to find policy", zap.String("policy_number", policyNumber), zap.Error(err))
	}

	// Execute command
	switch command {
	case "balance":
		balance, err := service.AccountBalance(ctx, p.ID, asOf)
		if err != nil {
			log.Fatal("Failed to compute balance", zap.Error(err))
		}
		fmt.Printf("%s balance as of %s: %s\n", p.PolicyNumber, asOf.Format(dateLayout), balance)

	case "pay":
		if amountArg == "" {
			log.Fatal("Payment amount required. Use -amount <value>")
		}
		amount, err := valueobject.NewMoneyUSDFromString(amountArg)
		if err != nil {
			log.Fatal("Invalid amount", zap.String("value", amountArg))
		}
		var payerID *uuid.UUID
		if payerArg != "" {
			id, err := uuid.Parse(payerArg)
			if err != nil {
				log.Fatal("Invalid payer ID", zap.String("value", payerArg))
			}
			payerID = &id
		}
		payment, err := service.RecordPayment(ctx, p.ID, payerID, amount, asOf)
		if err != nil {
			log.Fatal("Failed to record payment", zap.Error(err))
		}
		fmt.Printf("recorded payment %s of %s on %s\n",
			payment.ID, payment.AmountPaid, payment.TransactionDate.Format(dateLayout))

	case "pending":
		pending, err := service.IsCancellationPending(ctx, p.ID, asOf)
		if err != nil {
			log.Fatal("Failed to evaluate pending cancellation", zap.Error(err))
		}
		if pending {
			fmt.Printf("%s is pending cancellation as of %s\n", p.PolicyNumber, asOf.Format(dateLayout))
		} else {
			fmt.Printf("%s is not pending cancellation as of %s\n", p.PolicyNumber, asOf.Format(dateLayout))
		}

	case "cancel":
		decision, err := service.EvaluateCancel(ctx, p.ID, asOf, reasonArg, descArg)
		if err != nil {
			log.Fatal("Cancellation evaluation failed", zap.Error(err))
		}
		if decision.Canceled {
			fmt.Printf("%s canceled on %s: %s\n",
				p.PolicyNumber, decision.Date.Format(dateLayout), decision.Reason)
			if decision.Description != "" {
				fmt.Println("  ", decision.Description)
			}
		} else {
			fmt.Printf("%s should not be canceled as of %s\n", p.PolicyNumber, asOf.Format(dateLayout))
		}

	case "reschedule":
		if scheduleArg == "" {
			log.Fatal("New schedule required. Use -schedule <name>")
		}
		if err := service.ChangeBillingSchedule(ctx, p.ID, policy.BillingSchedule(scheduleArg), asOf); err != nil {
			log.Fatal("Failed to change billing schedule", zap.Error(err))
		}
		fmt.Printf("%s rescheduled to %s from %s\n", p.PolicyNumber, scheduleArg, asOf.Format(dateLayout))

	case "invoices":
		invoices, err := store.Invoices().FindActiveByPolicy(ctx, p.ID)
		if err != nil {
			log.Fatal("Failed to list invoices", zap.Error(err))
		}
		if len(invoices) == 0 {
			fmt.Printf("%s has no invoices\n", p.PolicyNumber)
			return
		}
		fmt.Printf("%-12s %-12s %-12s %s\n", "BILL", "DUE", "CANCEL", "AMOUNT")
		for _, invoice := range invoices {
			fmt.Printf("%-12s %-12s %-12s %s\n",
				invoice.BillDate.Format(dateLayout),
				invoice.DueDate.Format(dateLayout),
				invoice.CancelDate.Format(dateLayout),
				invoice.AmountDue)
		}

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Policy Billing CLI

Usage:
  billingctl [flags] <command>

Commands:
  balance       Show the account balance for a policy
  pay           Record a payment against a policy
  pending       Check whether a policy is pending cancellation for non-payment
  cancel        Evaluate (and apply) a cancellation decision
  reschedule    Change the billing schedule and regenerate future invoices
  invoices      List the current invoice set for a policy

Flags:
  -policy string       Policy number (required)
  -date string         Reference date YYYY-MM-DD (default: today)
  -amount string       Payment amount for pay, e.g. 400.00
  -payer string        Paying contact ID for pay (default: the named insured)
  -reason string       Explicit cancellation reason for cancel
  -description string  Cancellation description for cancel
  -schedule string     New billing schedule for reschedule
  -log-level string    Log level: debug, info, warn, error (default: warn)

Environment Variables:
  BILLING_DATABASE_HOST, BILLING_DATABASE_PORT, BILLING_DATABASE_USER,
  BILLING_DATABASE_PASSWORD, BILLING_DATABASE_NAME

Examples:
  # Check a policy's balance at the start of the term
  billingctl -policy "Policy Three" -date 2015-01-01 balance

  # Record a $400 payment
  billingctl -policy "Policy Three" -date 2015-02-01 -amount 400.00 pay

  # Evaluate cancellation for non-payment
  billingctl -policy "Policy Three" cancel

  # Switch to monthly billing
  billingctl -policy "Policy Three" -schedule Monthly reschedule`)
}
