package keyword

// HotWords 时政固定提法，优先于通用分词整体匹配
var HotWords = []string{
	"习近平新时代中国特色社会主义思想", "中华民族伟大复兴", "中国式现代化", "人类命运共同体",
	"全过程人民民主", "总体国家安全观", "两个维护", "四个意识", "四个自信", "高质量发展",
	"新发展理念", "新发展格局", "以人民为中心", "自我革命", "从严治党", "国家安全",
	"意识形态工作", "党对军队的绝对领导", "新时代", "绿水青山就是金山银山",
	"供给侧结构性改革", "科技自立自强", "关键核心技术", "新质生产力", "碳达峰缺口",
	"共同富裕", "乡村振兴", "一带一路", "数字中国", "实体经济", "低空经济",
	"未来产业", "双循环", "房住不炒", "六稳六保", "精准扶贫", "脱贫攻坚",
	"获得感", "讲好中国故事", "传承红色基因", "生命至上", "人民至上",
	"文化自信", "不忘初心", "牢记使命", "正能量", "主旋律",
	"基层治理", "扫黑除恶", "动态清零", "复工复产", "百年未有之大变局",
	"稳中求进", "踔厉奋发", "勇毅前行", "行稳致远", "深刻领悟", "全面深化",
}

// StopWords 通稿高频套话，不计入词频
var StopWords = toSet(
	"中国", "我国", "全国", "各地", "地方", "部门", "新华社", "记者", "新华时评", "快评", "中共中央", "国务院", "总书记",
	"人民", "日报", "文章", "习近平", "工作", "强调", "指出", "会议", "活动", "进行", "召开", "举行", "发表", "考察", "调研", "签署", "会见",
	"致电", "指示", "开展", "实施", "做好", "印发", "发布", "学习", "研究", "部署", "审议", "观看", "出席",
	"回信", "致信", "座谈", "主持", "坚持", "推进", "落实", "构建", "强化", "统筹", "协调", "贯彻", "抓好",
	"关于", "加强", "发展", "重要", "精神", "全面", "深入", "为了", "甚至", "以及", "其中", "成为", "我们", "这个", "那个",
	"扎实", "大力", "进一步", "不断", "切实", "坚决", "认真", "重大", "加快", "持续", "全力",
	"积极", "严格", "高效", "提升", "优化", "深化", "推动", "促进", "保障",
	"完善", "打造", "健全", "防范", "化解", "整治", "攀升", "开创", "奋力",
	"情况", "问题", "主要", "水平", "能力", "体系", "机制", "任务", "举措", "成效", "项目", "成果",
	"行动", "篇章", "部分", "更多", "日前", "近日", "今年", "去年", "同期", "首月", "多地",
)

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
