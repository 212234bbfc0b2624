package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	appKnowledge "github.com/voyagent/backend/internal/application/knowledge"
	"github.com/voyagent/backend/internal/domain/knowledge"
	"github.com/voyagent/backend/internal/infrastructure/config"
	"github.com/voyagent/backend/internal/infrastructure/embedding"
	"github.com/voyagent/backend/internal/infrastructure/vector"
)

// connectTimeout 向量库连接检查超时
const connectTimeout = 5 * time.Second

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		fmt.Println("用法:")
		fmt.Println("  seed              - 写入内置的巴黎示例知识文档")
		fmt.Println("  seed <路径>       - 索引指定 JSON 文档文件或目录")
		fmt.Println("")
		fmt.Println("需要 OPENAI_API_KEY 及可访问的 Qdrant 实例")
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("配置加载失败: %v", err)
	}

	store, err := vector.NewQdrantStore(&cfg.Qdrant)
	if err != nil {
		log.Fatalf("无法连接向量库: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	err = store.TestConnection(ctx)
	cancel()
	if err != nil {
		fmt.Printf("❌ Qdrant 不可达 (%s:%d): %v\n", cfg.Qdrant.Host, cfg.Qdrant.Port, err)
		os.Exit(1)
	}

	client := embedding.NewClient(&cfg.OpenAI)
	indexer := appKnowledge.NewIndexer(client, store, &cfg.OpenAI)

	fmt.Println("🌱 正在填充向量数据库...")

	if err := indexer.EnsureReady(context.Background()); err != nil {
		log.Fatalf("创建向量集合失败: %v", err)
	}

	var count int
	if len(os.Args) > 1 {
		count, err = seedFromPath(indexer, os.Args[1])
	} else {
		count, err = indexer.IndexDocuments(context.Background(), parisDocuments())
	}
	if err != nil {
		log.Fatalf("写入文档失败: %v", err)
	}

	total, err := indexer.Count(context.Background())
	if err != nil {
		log.Fatalf("统计文档数失败: %v", err)
	}

	fmt.Printf("✅ 成功写入 %d 篇文档，集合现有 %d 篇\n", count, total)
}

// seedFromPath 索引指定路径：目录按 IndexDir 批量处理，文件按单文件处理
func seedFromPath(indexer *appKnowledge.Indexer, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("无法访问路径 %s: %w", path, err)
	}

	if info.IsDir() {
		return indexer.IndexDir(context.Background(), path)
	}
	return indexer.IndexFile(context.Background(), path)
}

// parisDocuments 内置的巴黎旅行知识示例文档
func parisDocuments() []knowledge.Document {
	entries := []struct {
		id    string
		topic string
		cat   string
		text  string
	}{
		{
			id: "paris_overview", topic: "overview", cat: "general",
			text: `Paris, the capital of France, is one of the world's most visited cities.
Famous for the Eiffel Tower, Louvre Museum, Notre-Dame Cathedral, Arc de Triomphe,
and charming neighborhoods like Montmartre, Le Marais, and Latin Quarter.
The city has 20 arrondissements (districts), each with unique character.`,
		},
		{
			id: "paris_timing", topic: "timing", cat: "planning",
			text: `Best time to visit Paris: April-June and September-October offer mild weather
(15-25°C), fewer crowds than summer, and blooming gardens. Spring brings cherry
blossoms, autumn offers golden foliage. Avoid August when locals vacation and
many shops close. Winter (Dec-Feb) is cold but magical with Christmas markets.`,
		},
		{
			id: "paris_museums", topic: "museums", cat: "attractions",
			text: `Paris museums: The Louvre is the world's largest art museum, home to Mona Lisa,
Venus de Milo, and 35,000+ artworks. Book morning time slots online. Musée d'Orsay
showcases Impressionist masterpieces in a beautiful Beaux-Arts train station.
Musée de l'Orangerie displays Monet's Water Lilies. Rodin Museum has sculptures
and peaceful gardens. Consider Paris Museum Pass (€62 for 2 days, covers 60+ museums).`,
		},
		{
			id: "paris_food", topic: "food", cat: "dining",
			text: `Paris food: Le Marais (4th arr) has excellent bistros like L'As du Fallafel and
Chez Janou. Latin Quarter offers traditional brasseries and student-friendly cafés.
Visit neighborhood markets like Marché Bastille or Marché des Enfants Rouges (oldest
covered market). Try prix fixe lunch menus (€15-25) for good value. Essential foods:
fresh croissants from boulangeries, cheese plates, steak frites, macarons from
Ladurée or Pierre Hermé.`,
		},
		{
			id: "paris_transport", topic: "transportation", cat: "logistics",
			text: `Paris metro system has 16 lines covering the entire city. Operating hours:
5:30am-1am weekdays, until 2am weekends. Buy Navigo Découverte pass (€30/week unlimited)
or carnet of 10 tickets (€17). Central areas are walkable. Vélib' bike sharing available.
Avoid taxis, use metro or Uber instead. From CDG Airport: RER B train (€11, 45 min)
or Roissybus (€14, 60 min).`,
		},
		{
			id: "paris_itinerary_5day", topic: "itinerary", cat: "planning",
			text: `5-day Paris itinerary: Day 1 - Eiffel Tower area, Trocadéro gardens, Seine river cruise.
Day 2 - Louvre morning (book tickets!), Tuileries Garden, Champs-Élysées, Arc de Triomphe.
Day 3 - Montmartre, Sacré-Cœur, artists' square, Moulin Rouge area. Day 4 - Musée d'Orsay,
Latin Quarter, Notre-Dame island, Saint-Germain-des-Prés. Day 5 - Le Marais district,
Centre Pompidou, Marché des Enfants Rouges, evening at Canal Saint-Martin.`,
		},
		{
			id: "paris_budget", topic: "budget", cat: "planning",
			text: `Paris budget per day: Budget travel (€80-120): hostels, street food, free attractions,
walking tours. Mid-range (€150-250): 3-star hotels, bistro meals, museum entries,
occasional taxi. Luxury (€400+): 4-5 star hotels, Michelin restaurants, private tours.
Typical costs: hotel €100-200, breakfast €8-15, lunch €15-30, dinner €30-70,
metro day pass €15, museum entry €12-20.`,
		},
		{
			id: "paris_hidden_gems", topic: "hidden_gems", cat: "attractions",
			text: `Paris hidden gems: Canal Saint-Martin - trendy area with waterside cafés, local vibe.
Promenade Plantée - elevated park walkway (inspired NYC's High Line). Sainte-Chapelle -
stunning 13th-century stained glass, often overlooked. Père Lachaise Cemetery - peaceful
walks, famous graves (Jim Morrison, Oscar Wilde, Chopin). Rue Crémieux - colorful
Instagram street. Shakespeare and Company bookshop - iconic English bookstore.`,
		},
		{
			id: "paris_food_experiences", topic: "food_experiences", cat: "dining",
			text: `Must-try Paris food experiences: Authentic croissant from Du Pain et des Idées or
Gontran Cherrier (not chain bakeries). Cheese tasting at fromagerie with wine pairing.
Classic steak frites at traditional bistro like Le Relais de l'Entrecôte. Fresh oysters
at seafood bars near Montparnasse. Macarons from Ladurée or Pierre Hermé. Market picnic
with baguette, cheese, wine, charcuterie. Hot chocolate at Angelina (thick, rich).
Wine tasting in natural wine bars of 10th/11th arrondissements.`,
		},
		{
			id: "paris_tips", topic: "tips", cat: "general",
			text: `Paris practical tips: Learn basic French (bonjour, merci, s'il vous plaît, pardon).
Most museums closed Mondays or Tuesdays - check before visiting. Book popular restaurants
2-3 days ahead. Buy Louvre and Versailles tickets online to skip lines. Be aware of
pickpockets at tourist sites - keep valuables secure. Tap water (l'eau du robinet) is
safe and free at restaurants. Tipping: round up or 5-10% for exceptional service
(service is included in prices). Most shops closed Sundays except Marais and Champs-Élysées.`,
		},
	}

	docs := make([]knowledge.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, knowledge.Document{
			ID:   e.id,
			Text: strings.ReplaceAll(e.text, "\n", " "),
			Metadata: knowledge.DocumentMetadata{
				City:     "Paris",
				Topic:    e.topic,
				Category: e.cat,
			},
		})
	}
	return docs
}
