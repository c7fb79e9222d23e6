// Package seed holds the fixture dataset the repository is populated from
// when no external source is configured.
package seed

import (
	"time"

	"centralfight/gym-app/internal/domain"
	"centralfight/gym-app/internal/repository"

	"github.com/shopspring/decimal"
)

const (
	TrainerID = "trainer1"
	GymID     = "gym1"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func at(s string) time.Time {
	t, err := time.Parse(time.DateTime, s+":00")
	if err != nil {
		panic(err)
	}
	return t
}

func dayPtr(s string) *time.Time {
	t := day(s)
	return &t
}

// Plans returns the three subscription tiers.
func Plans() []domain.Plan {
	return []domain.Plan{
		{ID: "1", Name: "Plano Básico", Price: decimal.NewFromInt(120), DurationDays: 30, Description: "2x por semana - Muay Thai ou Jiu-Jitsu"},
		{ID: "2", Name: "Plano Premium", Price: decimal.NewFromInt(180), DurationDays: 30, Description: "Ilimitado - Todas as modalidades"},
		{ID: "3", Name: "Plano VIP", Price: decimal.NewFromInt(250), DurationDays: 30, Description: "Ilimitado + Personal Training"},
	}
}

// Snapshot builds the fixture dataset. passwordHash is stored on every
// account; pass "" to leave accounts without credentials.
func Snapshot(passwordHash string) repository.Snapshot {
	plans := Plans()

	trainer := domain.Trainer{
		User: domain.User{
			ID:           TrainerID,
			Name:         "Carlos Silva",
			Email:        "carlos@centralfight.com",
			Phone:        "(11) 99999-9999",
			Photo:        "https://via.placeholder.com/150",
			PasswordHash: passwordHash,
			CreatedAt:    day("2023-01-01"),
		},
		GymName:     "Central Fight Academy",
		Specialties: []string{"Muay Thai", "Jiu-Jitsu", "MMA"},
		StudentIDs:  []string{"student1", "student2", "student3", "student4"},
	}

	student := func(id, name, email, phone, created string, plan domain.Plan, status domain.PaymentStatus,
		due string, points int, level domain.Level, style string, weight float64, category string) domain.Student {
		return domain.Student{
			User: domain.User{
				ID:           id,
				Name:         name,
				Email:        email,
				Phone:        phone,
				Photo:        "https://via.placeholder.com/150",
				PasswordHash: passwordHash,
				CreatedAt:    day(created),
			},
			Plan:          plan,
			PaymentStatus: status,
			DueDate:       day(due),
			Points:        points,
			Level:         level,
			FightStyle:    style,
			Weight:        weight,
			Category:      category,
			TrainerID:     TrainerID,
		}
	}

	students := []domain.Student{
		student("student1", "João Santos", "joao@email.com", "(11) 98888-8888", "2023-06-01", plans[1],
			domain.PaymentStatusActive, "2024-02-15", 850, domain.LevelIntermediate, "Muay Thai", 75, "Meio-Médio"),
		student("student2", "Maria Oliveira", "maria@email.com", "(11) 97777-7777", "2023-08-15", plans[0],
			domain.PaymentStatusActive, "2024-02-20", 620, domain.LevelBeginner, "Jiu-Jitsu", 60, "Leve"),
		student("student3", "Pedro Costa", "pedro@email.com", "(11) 96666-6666", "2023-03-10", plans[2],
			domain.PaymentStatusOverdue, "2024-01-10", 1200, domain.LevelAdvanced, "MMA", 85, "Médio"),
		student("student4", "Ana Silva", "ana@email.com", "(11) 95555-5555", "2023-09-01", plans[1],
			domain.PaymentStatusActive, "2024-02-25", 450, domain.LevelBeginner, "Muay Thai", 55, "Mosca"),
	}

	payments := []domain.Payment{
		{ID: "pay1", StudentID: "student1", Amount: decimal.NewFromInt(180), Method: domain.MethodPix,
			Status: domain.PaymentPaid, DueDate: day("2024-01-15"), PaidDate: dayPtr("2024-01-14"), PlanID: "2"},
		{ID: "pay2", StudentID: "student2", Amount: decimal.NewFromInt(120), Method: domain.MethodCreditCard,
			Status: domain.PaymentPaid, DueDate: day("2024-01-20"), PaidDate: dayPtr("2024-01-18"), PlanID: "1"},
		{ID: "pay3", StudentID: "student3", Amount: decimal.NewFromInt(250), Method: domain.MethodBoleto,
			Status: domain.PaymentPending, DueDate: day("2024-01-10"), PlanID: "3"},
		{ID: "pay4", StudentID: "student4", Amount: decimal.NewFromInt(180), Method: domain.MethodPix,
			Status: domain.PaymentPaid, DueDate: day("2024-01-25"), PaidDate: dayPtr("2024-01-23"), PlanID: "2"},
	}

	checkIns := []domain.CheckIn{
		{ID: "checkin1", StudentID: "student1", Date: day("2024-01-20"), Points: 10, Type: domain.CheckInTraining},
		{ID: "checkin2", StudentID: "student1", Date: day("2024-01-18"), Points: 10, Type: domain.CheckInTraining},
		{ID: "checkin3", StudentID: "student2", Date: day("2024-01-19"), Points: 10, Type: domain.CheckInTraining},
		{ID: "checkin4", StudentID: "student3", Date: day("2024-01-17"), Points: 15, Type: domain.CheckInEvent},
		{ID: "checkin5", StudentID: "student4", Date: day("2024-01-21"), Points: 10, Type: domain.CheckInTraining},
	}

	gym := domain.Gym{
		ID:        GymID,
		Name:      "Central Fight Academy",
		Address:   "Rua das Lutas, 123 - São Paulo, SP",
		Phone:     "(11) 3333-3333",
		Email:     "contato@centralfight.com",
		TrainerID: TrainerID,
	}

	return repository.Snapshot{
		Plans:    plans,
		Trainers: []domain.Trainer{trainer},
		Students: students,
		Payments: payments,
		CheckIns: checkIns,
		Gyms:     []domain.Gym{gym},
		Events:   Events(),
	}
}

// Events returns the academy calendar. student1 is signed up for the
// seminar and the conditioning session.
func Events() []domain.Event {
	return []domain.Event{
		{
			ID:                  "event1",
			Title:               "Campeonato Interno de Muay Thai",
			Description:         "Competição interna para todos os níveis. Venha mostrar suas habilidades e ganhar experiência em combate.",
			Type:                domain.EventTournament,
			Status:              domain.EventUpcoming,
			Date:                at("2024-02-15 14:00"),
			Location:            "Academia Central Fight - Tatame Principal",
			Instructor:          "Mestre Carlos Silva",
			Price:               decimal.Zero,
			Requirements:        []string{"Mínimo 6 meses de treino", "Atestado médico", "Equipamentos de proteção"},
			MaxParticipants:     32,
			CurrentParticipants: 18,
			Registrants:         []string{},
		},
		{
			ID:                  "event2",
			Title:               "Seminário de Jiu-Jitsu com Faixa Preta",
			Description:         "Seminário especial com técnicas avançadas de Jiu-Jitsu ministrado por um faixa preta renomado.",
			Type:                domain.EventSeminar,
			Status:              domain.EventUpcoming,
			Date:                at("2024-02-08 10:00"),
			Location:            "Academia Central Fight - Sala 2",
			Instructor:          "Professor João Santos",
			Price:               decimal.NewFromInt(80),
			Requirements:        []string{"Faixa azul ou superior", "Kimono limpo"},
			MaxParticipants:     20,
			CurrentParticipants: 15,
			Registrants:         []string{"student1"},
		},
		{
			ID:                  "event3",
			Title:               "Exame de Graduação - Muay Thai",
			Description:         "Avaliação para progressão de graduação no Muay Thai. Teste suas habilidades e evolua de nível.",
			Type:                domain.EventGraduation,
			Status:              domain.EventUpcoming,
			Date:                at("2024-01-25 18:00"),
			Location:            "Academia Central Fight - Tatame Principal",
			Instructor:          "Mestre Carlos Silva",
			Price:               decimal.NewFromInt(50),
			Requirements:        []string{"Mínimo 4 meses na graduação atual", "Frequência mínima de 75%"},
			MaxParticipants:     15,
			CurrentParticipants: 12,
			Registrants:         []string{},
		},
		{
			ID:                  "event4",
			Title:               "Treino Especial de Condicionamento",
			Description:         "Treino focado em condicionamento físico e resistência para lutadores de todos os níveis.",
			Type:                domain.EventTraining,
			Status:              domain.EventCompleted,
			Date:                at("2024-01-20 07:00"),
			Location:            "Academia Central Fight - Área Externa",
			Instructor:          "Professor Ana Costa",
			Price:               decimal.Zero,
			MaxParticipants:     25,
			CurrentParticipants: 22,
			Registrants:         []string{"student1"},
		},
		{
			ID:                  "event5",
			Title:               "Workshop de Defesa Pessoal",
			Description:         "Aprenda técnicas básicas de defesa pessoal aplicáveis no dia a dia. Aberto ao público.",
			Type:                domain.EventSeminar,
			Status:              domain.EventUpcoming,
			Date:                at("2024-03-10 15:00"),
			Location:            "Academia Central Fight - Sala 1",
			Instructor:          "Professor Roberto Lima",
			Price:               decimal.NewFromInt(40),
			Requirements:        []string{"Roupas confortáveis"},
			MaxParticipants:     30,
			CurrentParticipants: 8,
			Registrants:         []string{},
		},
	}
}
