package parser

import "sort"

// DefaultSkillTaxonomy 内置技能分类表：分类名 -> 规范技能名列表
// 技能匹配统一走该表，保证提取结果使用规范大小写
func DefaultSkillTaxonomy() map[string][]string {
	return map[string][]string{
		"programming_languages": {
			"Python", "Java", "JavaScript", "C++", "C#", "Ruby", "PHP", "Go", "Rust",
			"TypeScript", "Swift", "Kotlin", "Scala", "R", "MATLAB", "Perl", "C",
			"Objective-C", "Dart", "Julia", "F#", "Haskell",
		},
		"web_technologies": {
			"HTML", "CSS", "React", "Angular", "Vue.js", "Node.js", "Express.js",
			"Django", "Flask", "Spring Boot", "ASP.NET", "Laravel", "Ruby on Rails",
			"Next.js", "Nuxt.js", "Svelte", "Bootstrap", "Tailwind CSS",
		},
		"databases": {
			"MySQL", "PostgreSQL", "MongoDB", "Redis", "Cassandra", "DynamoDB",
			"Oracle", "SQL Server", "SQLite", "Elasticsearch", "MariaDB",
			"CouchDB", "InfluxDB",
		},
		"cloud_platforms": {
			"AWS", "Azure", "Google Cloud", "GCP", "Heroku", "DigitalOcean",
			"Linode", "Vercel", "Netlify", "Firebase",
		},
		"devops_tools": {
			"Docker", "Kubernetes", "Jenkins", "GitLab CI", "Travis CI", "CircleCI",
			"Terraform", "Ansible", "Puppet", "Chef", "Vagrant", "Prometheus",
			"Grafana",
		},
		"version_control": {
			"Git", "GitHub", "GitLab", "Bitbucket", "SVN", "Mercurial",
		},
		"soft_skills": {
			"Communication", "Leadership", "Problem Solving", "Teamwork", "Agile",
			"Scrum", "Project Management", "Time Management", "Critical Thinking",
			"Collaboration", "Adaptability",
		},
		"frameworks": {
			"TensorFlow", "PyTorch", "Keras", "Pandas", "NumPy", "Scikit-learn",
			"OpenCV", "Matplotlib", "Seaborn", "Plotly",
		},
	}
}

// FlattenTaxonomy 将分类表展开为去重且排序的技能全集，保证遍历顺序确定
func FlattenTaxonomy(taxonomy map[string][]string) []string {
	seen := make(map[string]struct{})
	var all []string
	for _, skills := range taxonomy {
		for _, s := range skills {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				all = append(all, s)
			}
		}
	}
	sort.Strings(all)
	return all
}
