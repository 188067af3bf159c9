package main

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mattlince/aws-partner-tracker-sub000/internal/auth"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/config"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/db"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/models"
	"github.com/mattlince/aws-partner-tracker-sub000/internal/utils"
)

type seedTeam struct {
	Name   string
	Region string
	Color  string
}

type seedMember struct {
	TeamSlug string
	Name     string
	Role     string
	Tier     int
	Geo      string
}

type seedContact struct {
	Name    string
	Company string
	Title   string
	Tier    int
	Email   string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal(err)
	}
	defer client.Disconnect(context.Background())

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Fatal(err)
	}

	now := time.Now().In(cfg.Timezone)

	seedTeams := []seedTeam{
		{Name: "Startup Segment", Region: "AMER", Color: "#f59e0b"},
		{Name: "Enterprise Segment", Region: "AMER", Color: "#3b82f6"},
		{Name: "Public Sector", Region: "AMER", Color: "#10b981"},
	}

	teamIDs := make(map[string]string, len(seedTeams))
	for _, team := range seedTeams {
		slug := utils.Slugify(team.Name)
		id, err := seedOneTeam(ctx, cols, team, slug, now)
		if err != nil {
			log.Fatalf("seed error for team %s: %v", team.Name, err)
		}
		teamIDs[slug] = id
	}

	members := []seedMember{
		{TeamSlug: "startup-segment", Name: "Jordan Reyes", Role: models.RoleAM, Tier: 1, Geo: "US-West"},
		{TeamSlug: "startup-segment", Name: "Priya Nair", Role: models.RoleSA, Tier: 2, Geo: "US-West"},
		{TeamSlug: "enterprise-segment", Name: "Chris Okafor", Role: models.RolePSM, Tier: 1, Geo: "US-East"},
		{TeamSlug: "public-sector", Name: "Dana Whitfield", Role: models.RoleDM, Tier: 2, Geo: "US-East"},
	}
	for _, m := range members {
		teamID, ok := teamIDs[m.TeamSlug]
		if !ok {
			continue
		}
		if err := seedOneMember(ctx, cols, teamID, m, now); err != nil {
			log.Fatalf("seed error for member %s: %v", m.Name, err)
		}
	}

	seedContacts := []seedContact{
		{Name: "Avery Collins", Company: "Northwind Robotics", Title: "VP Engineering", Tier: 1, Email: "avery@northwindrobotics.example"},
		{Name: "Sam Torres", Company: "Lakeshore Analytics", Title: "CTO", Tier: 2, Email: "sam@lakeshore.example"},
		{Name: "Mia Chen", Company: "Brightline Health", Title: "Director of Platform", Tier: 3, Email: "mia@brightline.example"},
	}
	for _, c := range seedContacts {
		if err := seedOneContact(ctx, cols, c, now); err != nil {
			log.Fatalf("seed error for contact %s: %v", c.Name, err)
		}
	}

	adminUser := envOrDefault("ADMIN_USER", "admin")
	adminEmail := envOrDefault("ADMIN_EMAIL", "")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Printf("seed admin: %s missing ADMIN_PASSWORD, skipping", adminUser)
	} else if err := seedAdminUser(ctx, cols, adminUser, adminEmail, adminPassword, cfg.Timezone); err != nil {
		log.Fatalf("seed admin error for %s: %v", adminUser, err)
	}

	log.Println("seed completed")
}

func seedOneTeam(ctx context.Context, cols *db.Collections, team seedTeam, slug string, now time.Time) (string, error) {
	filter := bson.M{"slug": slug}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"name":      team.Name,
			"slug":      slug,
			"region":    team.Region,
			"color":     team.Color,
			"createdAt": now,
			"updatedAt": now,
		},
	}
	if _, err := cols.Teams.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
		return "", err
	}

	var doc struct {
		ID string `bson:"_id"`
	}
	if err := cols.Teams.FindOne(ctx, filter).Decode(&doc); err != nil {
		return "", err
	}
	return doc.ID, nil
}

func seedOneMember(ctx context.Context, cols *db.Collections, teamID string, m seedMember, now time.Time) error {
	filter := bson.M{"teamId": teamID, "name": m.Name}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"teamId":    teamID,
			"name":      m.Name,
			"role":      m.Role,
			"tier":      models.NormalizeTier(m.Tier),
			"geo":       m.Geo,
			"createdAt": now,
			"updatedAt": now,
		},
	}
	_, err := cols.TeamMembers.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func seedOneContact(ctx context.Context, cols *db.Collections, c seedContact, now time.Time) error {
	filter := bson.M{"name": c.Name, "company": c.Company}
	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID().Hex(),
			"name":      c.Name,
			"company":   c.Company,
			"title":     c.Title,
			"tier":      models.NormalizeTier(c.Tier),
			"email":     c.Email,
			"createdAt": now,
			"updatedAt": now,
		},
	}
	_, err := cols.Contacts.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func seedAdminUser(ctx context.Context, cols *db.Collections, username, email, password string, loc *time.Location) error {
	if cols == nil || cols.Users == nil {
		return nil
	}
	if username == "" || password == "" {
		return nil
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	now := time.Now().In(loc)
	filter := bson.M{"username": username}
	set := bson.M{
		"passwordHash": hash,
		"role":         models.UserRoleAdmin,
		"updatedAt":    now,
	}
	if email != "" {
		set["email"] = email
	}
	setOnInsert := bson.M{
		"_id":       primitive.NewObjectID().Hex(),
		"username":  username,
		"createdAt": now,
	}
	if email != "" {
		setOnInsert["email"] = email
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": setOnInsert,
	}
	_, err = cols.Users.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
